// Package sanitizer normalizes inbound entity fields before validation
// and storage. All functions are idempotent and never return errors:
// unusable input collapses to the empty string.
//
//   - Names and notes: collapse internal whitespace, trim the ends
//   - Emails: trim and lowercase (uniqueness is case-insensitive)
//   - Phone numbers: E.164 via libphonenumber, or empty when unparseable
//   - URLs: enforce https, lowercase the host, keep path and query
package sanitizer
