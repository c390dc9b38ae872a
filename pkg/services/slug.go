package services

import (
	"context"
	"fmt"
	"strings"
	"unicode"

	"github.com/dongiocoder/cx-flow-designer-sub000/pkg/store"
	gonanoid "github.com/matoous/go-nanoid/v2"
)

// maxSlugSuffix bounds the numeric suffix search so slug generation always
// terminates; past the bound a random suffix guarantees uniqueness.
const maxSlugSuffix = 50

// Slugify lowercases a name and collapses every non-alphanumeric run into a
// single hyphen: "Acme Corp" becomes "acme-corp".
func Slugify(name string) string {
	var b strings.Builder

	lastHyphen := true // Suppress a leading hyphen

	for _, r := range strings.ToLower(name) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)

			lastHyphen = false

			continue
		}

		if !lastHyphen {
			b.WriteByte('-')

			lastHyphen = true
		}
	}

	return strings.TrimSuffix(b.String(), "-")
}

// uniqueSlug returns the first free slug among base, base-1, base-2, ... up
// to maxSlugSuffix, then falls back to a short random suffix.
func uniqueSlug(ctx context.Context, st store.DocumentStore, base string) (string, error) {
	taken := func(slug string) (bool, error) {
		matches, err := st.Query(ctx, store.CollectionCompanies, store.Filter{"slug": slug})
		if err != nil {
			return false, err
		}

		return len(matches) > 0, nil
	}

	inUse, err := taken(base)
	if err != nil {
		return "", err
	}

	if !inUse {
		return base, nil
	}

	for i := 1; i <= maxSlugSuffix; i++ {
		candidate := fmt.Sprintf("%s-%d", base, i)

		inUse, err := taken(candidate)
		if err != nil {
			return "", err
		}

		if !inUse {
			return candidate, nil
		}
	}

	suffix, err := gonanoid.Generate("0123456789abcdefghijklmnopqrstuvwxyz", 6)
	if err != nil {
		return "", err
	}

	return base + "-" + suffix, nil
}
