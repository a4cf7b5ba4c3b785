// Package lambda executes node trees as code.
//
// The interpreter walks the children of a node in order. Children whose
// name is empty or starts with '_' are data and are skipped; every other
// child is raised as an event with itself as arguments, so a keyword such as
// "set" or "if" and a native or lambda event are invoked alike.
//
// Keywords are installed in an event registry with Register:
//
//	reg := event.NewRegistry()
//	lambda.Register(reg)
//	ctx := event.NewContext(reg, event.WithEvaluator(lambda.Interpreter{}))
//	err := ctx.Exec(code, 0)
//
// Keywords leave their own arguments as they found them unless producing
// output there is their purpose, as for "get-event" or "fetch".
package lambda
