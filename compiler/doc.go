/*

Process of translation

Python ast (json or yaml, as printed by ast2json) ->
	decode ->
Abstract Syntax Tree (ast) ->
	register (symbols) ->
	translate (back) ->
Rust Token Stream (rs) ->
	format ->
Rust Source Text

*/
package compiler
