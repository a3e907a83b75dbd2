package service

import (
	"sort"
	"sync"

	"chatlink-auth/entity"

	"golang.org/x/text/language"
)

var (
	languagesOnce sync.Once
	languageList  []entity.Language
)

// Languages returns the ISO 639-1 languages with an English display name, sorted by name.
func Languages() []entity.Language {
	languagesOnce.Do(func() {
		languageList = buildLanguages()
	})

	out := make([]entity.Language, len(languageList))
	copy(out, languageList)
	return out
}

func buildLanguages() []entity.Language {
	var list []entity.Language
	for a := 'a'; a <= 'z'; a++ {
		for b := 'a'; b <= 'z'; b++ {
			code := string([]rune{a, b})
			base, err := language.ParseBase(code)
			if err != nil || base.String() != code {
				continue
			}
			name := LanguageName(code)
			if name == "" {
				continue
			}
			list = append(list, entity.Language{Code: code, Name: name})
		}
	}

	sort.Slice(list, func(i, j int) bool {
		if list[i].Name == list[j].Name {
			return list[i].Code < list[j].Code
		}
		return list[i].Name < list[j].Name
	})
	return list
}
