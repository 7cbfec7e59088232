// Package rvcc compiles a small C subset to RV64 GNU-as assembly
// text: lexer -> parser -> semantic analyzer (HIR) -> TAC generator ->
// TAC optimizer -> LIR generator -> register allocator -> spiller ->
// canonicalizer -> assembly emitter. Compile is the only exported
// entry point; reading source files, driving an assembler or linker,
// and a CLI wrapper are all left to the caller.
package rvcc
