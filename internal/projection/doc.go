// Package projection derives the four dashboard render specs from a dataset
// and a subject index. Every function here is pure: the same dataset and
// index always produce the same spec, and nothing is drawn.
package projection
