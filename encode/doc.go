// Package encode writes node trees as hyperlambda text.
//
// Importing the package installs an encoder used by ir to convert nodes to
// strings.
package encode
