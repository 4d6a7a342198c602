// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package catalog fetches the published mod snapshot and overlays the live
// counters from the counter store at read time. The snapshot stays the
// git-versioned record of approved items; the store is the single source of
// truth for mutable state, so the merge never writes back.
package catalog

import (
	"encoding/json"
	"strconv"
	"strings"
)

// FlexString accepts either a JSON string or a JSON number, normalizing to a
// string. Older snapshots used numeric identifiers.
type FlexString string

// UnmarshalJSON implements tolerant decoding for string-or-number fields.
func (f *FlexString) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "null" {
		*f = ""
		return nil
	}
	if len(s) > 0 && s[0] == '"' {
		var v string
		if err := json.Unmarshal(data, &v); err != nil {
			return err
		}
		*f = FlexString(v)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*f = FlexString(n.String())
	return nil
}

// File is one downloadable file attached to a catalog item.
type File struct {
	Name string `json:"name"`
	URL  string `json:"url"`
	Size int64  `json:"size"`
	Type string `json:"type"`
}

// Item is one published piece of content. All fields are optional; the
// social counters are snapshot baselines that the merge engine supersedes
// with live values when the store has them.
type Item struct {
	ID            FlexString `json:"id"`
	Number        FlexString `json:"number,omitempty"` // legacy identifier field
	Category      string     `json:"category,omitempty"`
	Game          string     `json:"game,omitempty"`
	Description   string     `json:"description,omitempty"`
	Author        string     `json:"author,omitempty"`
	Date          string     `json:"date,omitempty"`
	Version       string     `json:"version,omitempty"`
	Compatibility []string   `json:"compatibility,omitempty"`
	Tags          []string   `json:"tags,omitempty"`
	Files         []File     `json:"files,omitempty"`
	Likes         int64      `json:"likes"`
	Downloads     int64      `json:"downloads"`
	Rating        float64    `json:"rating"`
	RatingCount   int64      `json:"ratingCount"`
}

// Matches reports whether the requested identifier names this item, checking
// both the id and the legacy number field as strings.
func (it *Item) Matches(id string) bool {
	if id == "" {
		return false
	}
	return string(it.ID) == id || string(it.Number) == id
}

// Key returns the identifier used for counter lookups: the id field when
// present, else the legacy number.
func (it *Item) Key() string {
	if it.ID != "" {
		return string(it.ID)
	}
	return string(it.Number)
}

// ParseItems decodes a snapshot body. A malformed top-level payload degrades
// to an empty collection; a single malformed item is skipped rather than
// failing the whole set.
func ParseItems(data []byte) []Item {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil
	}

	items := make([]Item, 0, len(raw))
	for _, r := range raw {
		var it Item
		if err := json.Unmarshal(r, &it); err != nil {
			continue
		}
		items = append(items, it)
	}
	return items
}

// parseCount converts a stored counter string to an integer. Unparsable
// values are treated as absent.
func parseCount(s string) (int64, bool) {
	n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

// parseRating converts a stored rating string to a float. Unparsable values
// are treated as absent.
func parseRating(s string) (float64, bool) {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, false
	}
	return f, true
}
