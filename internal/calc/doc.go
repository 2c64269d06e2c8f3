// Package calc evaluates calculator expressions.
//
// Input is tokenized, parsed by recursive descent into an AST and the tree
// is evaluated; no code is ever generated from the input. Precedence, from
// loosest to tightest:
//
//	expr     term (('+' | '-') term)*
//	term     unary (('*' | '/' | '×' | '÷') unary)*
//	unary    ('+' | '-')* power
//	power    postfix ('^' unary)?          right-associative
//	postfix  primary ('!' | '%')*
//	primary  number | constant | func '(' args ')' | '(' expr ')'
//
// So -2^2 is -4, 2^-1 is 0.5 and 2^3^2 is 512.
package calc
