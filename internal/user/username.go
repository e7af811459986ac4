package user

import (
	"context"
	"strconv"
	"strings"

	usererrors "go-fleetpay/internal/user/errors"
)

// BaseUsername derives the login name for a driver: the first word of the
// lower-cased name plus the first letter of the second word.
//
//	"Juan Perez" -> "juanp"
//	"Ana"        -> "ana"
func BaseUsername(name string) string {
	words := strings.Fields(strings.ToLower(name))
	switch len(words) {
	case 0:
		return ""
	case 1:
		return words[0]
	default:
		second := []rune(words[1])
		return words[0] + string(second[0])
	}
}

// GenerateUsername returns the first free candidate among base, base2,
// base3 and so on.
func GenerateUsername(ctx context.Context, repo Repository, name string) (string, error) {
	base := BaseUsername(name)
	if base == "" {
		return "", usererrors.ErrEmptyUsername
	}

	candidate := base
	for n := 2; ; n++ {
		exists, err := repo.ExistsByUsername(ctx, candidate)
		if err != nil {
			return "", err
		}
		if !exists {
			return candidate, nil
		}
		candidate = base + strconv.Itoa(n)
	}
}
