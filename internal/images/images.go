// Package images picks a stock image for a story headline. Pure lookup,
// never fails: a direct category-word hit wins, then a regex ladder over
// the title, then the default news image.
package images

import (
	"regexp"
	"strings"
)

// categoryOrder fixes the lookup order so headlines matching several
// category words resolve deterministically.
var categoryOrder = []string{
	"politics", "government", "election", "court", "law", "economy",
	"business", "technology", "health", "science", "environment",
	"education", "immigration", "crime", "war", "military",
	"international", "sports", "entertainment",
}

// categoryImages maps a category word to its stock image.
var categoryImages = map[string]string{
	"politics":      "https://images.unsplash.com/photo-1529107386315-e1a2ed48a620?w=800&auto=format&fit=crop",
	"government":    "https://images.unsplash.com/photo-1523292562811-8fa7962a78c8?w=800&auto=format&fit=crop",
	"election":      "https://images.unsplash.com/photo-1540910419892-4a36d2c3266c?w=800&auto=format&fit=crop",
	"court":         "https://images.unsplash.com/photo-1589829545856-d10d557cf95f?w=800&auto=format&fit=crop",
	"law":           "https://images.unsplash.com/photo-1589829545856-d10d557cf95f?w=800&auto=format&fit=crop",
	"economy":       "https://images.unsplash.com/photo-1611974789855-9c2a0a7236a3?w=800&auto=format&fit=crop",
	"business":      "https://images.unsplash.com/photo-1507679799987-c73779587ccf?w=800&auto=format&fit=crop",
	"technology":    "https://images.unsplash.com/photo-1518770660439-4636190af475?w=800&auto=format&fit=crop",
	"health":        "https://images.unsplash.com/photo-1505751172876-fa1923c5c528?w=800&auto=format&fit=crop",
	"science":       "https://images.unsplash.com/photo-1532094349884-543bc11b234d?w=800&auto=format&fit=crop",
	"environment":   "https://images.unsplash.com/photo-1464822759023-fed622ff2c3b?w=800&auto=format&fit=crop",
	"education":     "https://images.unsplash.com/photo-1503676260728-1c00da094a0b?w=800&auto=format&fit=crop",
	"immigration":   "https://images.unsplash.com/photo-1621506821957-1b50ab7a1d7f?w=800&auto=format&fit=crop",
	"crime":         "https://images.unsplash.com/photo-1589578527966-fdac0f44566c?w=800&auto=format&fit=crop",
	"war":           "https://images.unsplash.com/photo-1580418827493-f2b22c0a76cb?w=800&auto=format&fit=crop",
	"military":      "https://images.unsplash.com/photo-1580418827493-f2b22c0a76cb?w=800&auto=format&fit=crop",
	"international": "https://images.unsplash.com/photo-1526470608268-f674ce90ebd4?w=800&auto=format&fit=crop",
	"sports":        "https://images.unsplash.com/photo-1461896836934-ffe607ba8211?w=800&auto=format&fit=crop",
	"entertainment": "https://images.unsplash.com/photo-1603190287605-e6ade32fa852?w=800&auto=format&fit=crop",
}

// DefaultImage is the generic news fallback.
const DefaultImage = "https://images.unsplash.com/photo-1504711434969-e33886168f5c?w=800&auto=format&fit=crop"

// titleRule picks a category image from broader title patterns when no
// category word appears verbatim.
type titleRule struct {
	category string
	pattern  *regexp.Regexp
}

var titleRules = []titleRule{
	{"politics", regexp.MustCompile(`(?i)\b(president|congress|senate|house|government|administration|biden|trump|election|vote|ballot|democrat|republican|political)\b`)},
	{"court", regexp.MustCompile(`(?i)\b(court|justice|judge|supreme court|legal|law|lawsuit|attorney|lawyer)\b`)},
	{"economy", regexp.MustCompile(`(?i)\b(economy|economic|market|stock|inflation|fed|federal reserve|interest rate|unemployment)\b`)},
	{"technology", regexp.MustCompile(`(?i)\b(tech|technology|digital|cyber|internet|ai|artificial intelligence|app|software|computer|robot)\b`)},
	{"health", regexp.MustCompile(`(?i)\b(health|covid|virus|disease|medical|doctor|hospital|patient|vaccine|medicine|healthcare)\b`)},
	{"environment", regexp.MustCompile(`(?i)\b(climate|environment|pollution|carbon|emission|sustainable|green|renewable|energy)\b`)},
	{"education", regexp.MustCompile(`(?i)\b(school|education|student|teacher|university|college|campus|learning)\b`)},
	{"immigration", regexp.MustCompile(`(?i)\b(immigrant|immigration|border|migrant|refugee|asylum|deportation)\b`)},
	{"war", regexp.MustCompile(`(?i)\b(war|military|army|navy|air force|troops|soldier|combat|weapon|defense|attack)\b`)},
	{"international", regexp.MustCompile(`(?i)\b(international|global|world|foreign|diplomat|embassy|country|nation)\b`)},
	{"crime", regexp.MustCompile(`(?i)\b(crime|criminal|police|arrest|prison|jail|investigation|fbi|security)\b`)},
}

// ForHeadline returns an image URL for a story headline and its keywords.
func ForHeadline(title string, keywords []string) string {
	titleWords := make(map[string]struct{})
	for _, w := range strings.Fields(strings.ToLower(title)) {
		titleWords[w] = struct{}{}
	}
	keywordSet := make(map[string]struct{}, len(keywords))
	for _, k := range keywords {
		keywordSet[strings.ToLower(k)] = struct{}{}
	}

	for _, category := range categoryOrder {
		if _, ok := titleWords[category]; ok {
			return categoryImages[category]
		}
		if _, ok := keywordSet[category]; ok {
			return categoryImages[category]
		}
	}

	for _, rule := range titleRules {
		if rule.pattern.MatchString(title) {
			return categoryImages[rule.category]
		}
	}
	return DefaultImage
}
