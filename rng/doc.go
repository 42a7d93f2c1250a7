// Package rng provides a feedable CSPRNG.
//
// CSPRNG used is fortuna: github.com/seehuhn/fortuna
// By default the CSPRNG is fed by two sources:
// - It starts with a seed from `crypto/rand` and periodically reseeds from there
// - A really simple tickfeeder which extracts entropy from the internal go scheduler using goroutines and is meant to be used under load.
//
// Any source.Source can be added with AddSource. Its output is credited with
// the amount of entropy its strength level suggests, so weak sources only
// contribute a small share of every reseed.
package rng
