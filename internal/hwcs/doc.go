// Package hwcs holds the value types shared by both ends of the control
// protocol: status codes, parameter enums, and display mode descriptors.
//
// Enum values are the wire values. Decoding of raw client input into these
// enums happens here; mapping them onto backend controls happens in the
// service package, and the two layers fall back differently for values
// they do not recognise.
package hwcs
