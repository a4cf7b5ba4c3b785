// Package token tokenizes hyperlambda text and lambda expressions.
//
// [Tokenize] splits a document into lines of indentation, names, separators
// and values. [TokenizeExpr] splits an expression such as
// "/../foo/*?value" into iterator segments and operators.
//
// Quoted strings come in two forms: single line "..." strings with
// backslash escapes, see [Quote] and [Unquote], and multiline @"..." strings
// where a doubled quote stands for one quote, see [MQuote] and [MUnquote].
package token
