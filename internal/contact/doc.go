// Package contact defines the single entity persisted by contactbook.
//
// This package contains the type definition and field normalization only.
// All other internal packages import contact; contact imports nothing internal.
package contact
