// Package interpret asks a vision language model to read semantic
// information off a measured floor plan: building type, structural system,
// confirmed room labels and types, and anything unusual about the
// measurements. The model validates the computed geometry; it is never
// asked to measure. When the model cannot be reached or answers with
// something unusable, Interpret returns Default().
package interpret
