//go:generate go run github.com/abice/go-enum --file=$GOFILE --names --nocase

package domain

// Priority ranks a digest item within its category
// ENUM(high,medium,low)
type Priority string

// FallbackReason explains why the deterministic categorizer produced the digest
// ENUM(timeout,ai_unavailable,no_content)
type FallbackReason string
