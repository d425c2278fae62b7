// Package types defines the cell model, the Table and Store interfaces,
// configuration, and the standard errors for the Ivory tabular store.
package types
