package commands

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"taskflow/internal/service"
)

// ErrRefRequired indicates no task reference was provided.
var ErrRefRequired = errors.New("task reference required")

// ResolveRef turns positional args into the title of an existing task.
//
// Resolution rules:
//  1. The args joined by single spaces are looked up as a title (case-insensitive).
//  2. If no title matches and the ref is all digits, it is a 1-based position
//     in list order.
//  3. Otherwise the task is not found.
func ResolveRef(ctx context.Context, svc service.Service, args []string) (string, error) {
	ref := strings.TrimSpace(strings.Join(args, " "))
	if ref == "" {
		return "", ErrRefRequired
	}

	if t, ok := svc.Find(ctx, ref); ok {
		return t.Title, nil
	}

	if isAllDigits(ref) {
		n, err := strconv.Atoi(ref)
		if err == nil && n >= 1 {
			tasks, err := svc.List(ctx, "")
			if err != nil {
				return "", err
			}
			if n <= len(tasks) {
				return tasks[n-1].Title, nil
			}
		}
	}
	return "", fmt.Errorf("%w: %s", service.ErrNotFound, ref)
}

// isAllDigits returns true if s consists only of ASCII digits and is non-empty.
func isAllDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r > unicode.MaxASCII || !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}
