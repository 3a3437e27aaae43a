package models

// Canonical taxonomy rows, seeded out of band and read-only at runtime.

type Language struct {
	ID           int64  `db:"id"            json:"id"`
	MatchingName string `db:"matching_name" json:"matchingName"`
	DisplayName  string `db:"display_name"  json:"displayName"`
}

type Framework struct {
	ID           int64  `db:"id"            json:"id"`
	MatchingName string `db:"matching_name" json:"matchingName"`
	DisplayName  string `db:"display_name"  json:"displayName"`
	Category     string `db:"category"      json:"category"`
}

type Domain struct {
	ID           int64  `db:"id"            json:"id"`
	MatchingName string `db:"matching_name" json:"matchingName"`
	DisplayName  string `db:"display_name"  json:"displayName"`
}
