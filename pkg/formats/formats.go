// Package formats provides readers for content container formats.
package formats
