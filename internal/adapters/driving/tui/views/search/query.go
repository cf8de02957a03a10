package search

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/custodia-labs/sercha-discord/internal/core/domain"
)

// ParseQuery splits a query line into free text and filter terms.
// Filters use Discord's search syntax:
//
//	in:<channel id>     repeatable, any channel matches
//	from:<user id>      author
//	mentions:<user id>  mentioned user
//	role:<role id>      mentioned role
//	has:<category>      repeatable, every category must be present
//	pinned:true|false
//	before:<date>       RFC 3339 or YYYY-MM-DD, inclusive
//	after:<date>        RFC 3339 or YYYY-MM-DD, inclusive
//
// Every other word is search text. A repeated single-valued filter keeps
// the last value.
func ParseQuery(line string) (domain.MessageSearch, error) {
	var (
		search domain.MessageSearch
		words  []string
	)

	for _, token := range strings.Fields(line) {
		key, value, ok := strings.Cut(token, ":")
		if !ok || value == "" {
			words = append(words, token)
			continue
		}

		var err error
		switch strings.ToLower(key) {
		case "in":
			var id uint64
			if id, err = parseID(key, value); err == nil {
				search.ChannelIDs = append(search.ChannelIDs, id)
			}
		case "from":
			search.AuthorID, err = parseIDPtr(key, value)
		case "mentions":
			search.MentionUserID, err = parseIDPtr(key, value)
		case "role":
			search.MentionRoleID, err = parseIDPtr(key, value)
		case "has":
			var category domain.MediaCategory
			if category, err = domain.ParseMediaCategory(strings.ToLower(value)); err == nil {
				search.Has = append(search.Has, category)
			}
		case "pinned":
			var pinned bool
			if pinned, err = strconv.ParseBool(value); err != nil {
				err = fmt.Errorf("%w: pinned must be true or false, got %q", domain.ErrInvalidInput, value)
			} else {
				search.Pinned = &pinned
			}
		case "before":
			search.Before, err = parseDate(key, value)
		case "after":
			search.After, err = parseDate(key, value)
		default:
			// not a filter, e.g. a URL
			words = append(words, token)
		}
		if err != nil {
			return domain.MessageSearch{}, err
		}
	}

	search.Text = strings.Join(words, " ")
	return search, nil
}

func parseID(key, value string) (uint64, error) {
	id, err := strconv.ParseUint(value, 10, 64)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("%w: %s needs a numeric id, got %q", domain.ErrInvalidInput, key, value)
	}
	return id, nil
}

func parseIDPtr(key, value string) (*uint64, error) {
	id, err := parseID(key, value)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

func parseDate(key, value string) (*time.Time, error) {
	for _, layout := range []string{time.RFC3339, time.DateOnly} {
		if t, err := time.Parse(layout, value); err == nil {
			return &t, nil
		}
	}
	return nil, fmt.Errorf("%w: %s needs a date like 2024-01-31, got %q", domain.ErrInvalidInput, key, value)
}
