// Package conv provides checked integer conversions.
//
// Slot indices are 32-bit while Go lengths and capacities are int. Every place
// where a capacity or position crosses that boundary goes through this package
// so that growth past the addressable index space fails loudly instead of
// wrapping around.
package conv
