// Package clusterer groups a flat article list into event clusters.
//
// The default strategy is greedy single-pass assignment: each article joins
// the first open cluster containing a similar member, otherwise it opens a
// new cluster. Membership can therefore depend on processing order: two
// mutually similar articles may land in different clusters when an earlier
// article claims one of them first. That order-dependence is an accepted
// limitation of this strategy, and the Strategy interface exists so a
// transitive-closure clusterer can be substituted.
package clusterer

import (
	"sort"

	"newslens/internal/core"
	"newslens/internal/similarity"
	"newslens/internal/textrank"
)

// Strategy turns a flat article list into clusters.
type Strategy interface {
	Cluster(articles []core.Article) []core.Cluster
}

// Greedy is the first-fit single-pass clustering strategy.
type Greedy struct{}

// NewGreedy returns the default clustering strategy.
func NewGreedy() *Greedy {
	return &Greedy{}
}

// Cluster assigns each article, in arrival order, to the first existing
// cluster with a similar member and no article from the same outlet;
// otherwise the article starts a new cluster. Keywords are attached to
// articles that arrive without them, since the pairwise matcher relies on
// keyword overlap.
func (g *Greedy) Cluster(articles []core.Article) []core.Cluster {
	var clusters []core.Cluster

	for _, article := range articles {
		if len(article.Keywords) == 0 {
			article.Keywords = textrank.ExtractKeywords(article.Title + " " + article.Description)
		}

		placed := false
		for i := range clusters {
			if clusters[i].HasSource(article.SourceID) {
				continue
			}
			if clusterMatches(&clusters[i], &article) {
				clusters[i].Articles = append(clusters[i].Articles, article)
				placed = true
				break
			}
		}
		if !placed {
			clusters = append(clusters, core.Cluster{Articles: []core.Article{article}})
		}
	}

	return clusters
}

func clusterMatches(cluster *core.Cluster, article *core.Article) bool {
	for i := range cluster.Articles {
		if similarity.AreSimilar(&cluster.Articles[i], article) {
			return true
		}
	}
	return false
}

// Select filters clusters for synthesis: prefer clusters with at least
// minSources member articles, fall back to smaller clusters when too few
// corroborated ones exist, and cap the result at target, higher source
// counts first.
func Select(clusters []core.Cluster, minSources, target int) []core.Cluster {
	if target <= 0 {
		return nil
	}

	sorted := make([]core.Cluster, len(clusters))
	copy(sorted, clusters)
	sort.SliceStable(sorted, func(i, j int) bool {
		return len(sorted[i].Articles) > len(sorted[j].Articles)
	})

	var selected []core.Cluster
	for _, c := range sorted {
		if len(c.Articles) >= minSources {
			selected = append(selected, c)
			if len(selected) == target {
				return selected
			}
		}
	}

	// Back-fill with smaller clusters; sorted order keeps double-source
	// clusters ahead of singletons.
	for _, c := range sorted {
		if len(c.Articles) < minSources {
			selected = append(selected, c)
			if len(selected) == target {
				break
			}
		}
	}
	return selected
}
