package message

import (
	"strings"

	"golang.org/x/text/language"

	"github.com/YelzhanWeb/carta/internal/domain"
)

// NegotiateLocale picks the locale from the first usable candidate, which
// may be a plain code or an Accept-Language value. Within a candidate the
// first supported language wins; when none is supported its first language
// is returned as is and takes the bilingual path. With no usable candidate
// it returns Spanish.
func NegotiateLocale(candidates ...string) string {
	for _, candidate := range candidates {
		if strings.TrimSpace(candidate) == "" {
			continue
		}

		tags, _, err := language.ParseAcceptLanguage(candidate)
		if err != nil || len(tags) == 0 {
			continue
		}

		for _, tag := range tags {
			if code := baseCode(tag); supported(code) {
				return code
			}
		}
		if code := baseCode(tags[0]); code != "und" {
			return code
		}
	}

	return domain.DefaultLanguage
}

func baseCode(tag language.Tag) string {
	base, _ := tag.Base()
	return base.String()
}

func supported(code string) bool {
	_, ok := catalog[code]
	return ok
}
