// Package cooked defines the read-only "cooked data" records that describe
// what each loadable sound object needs: banks, media, external sources,
// required group values and switch container leaves, per language.
//
// Records are produced outside the loader (see feature/catalog) and are
// never mutated by it. Every record implements Record so the loader can
// treat all eight kinds uniformly.
package cooked
