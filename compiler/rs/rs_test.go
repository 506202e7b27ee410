package rs

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIdentName(t *testing.T) {
	assert.Equal(t, "x", IdentName("x"))
	assert.Equal(t, "r#match", IdentName("match"))
	assert.Equal(t, "r#fn", IdentName("fn"))
	assert.Equal(t, "self_", IdentName("self"))
	assert.Equal(t, "__", IdentName("_"))

	assert.True(t, IsKeyword("async"))
	assert.False(t, IsKeyword("def"))
}

func TestStream(t *testing.T) {
	var s Stream

	s = s.Keyword("let").Ident("x").Punct("=")
	s = s.Macro("vec").Group("[", "]", Stream{}.Literal("1").Join())

	assert.Equal(t, `let x = vec ! [ 1 ]`, s.String())

	assert.True(t, s[3].Joint, "macro name")
	assert.True(t, s[4].Joint, "bang")
	assert.True(t, s[5].Joint, "open bracket")
	assert.False(t, s[len(s)-1].Joint, "close bracket")
}

func TestPathAndComma(t *testing.T) {
	s := Stream{}.Path("std", "collections", "HashMap")
	assert.Equal(t, "std :: collections :: HashMap", s.String())

	for i, tk := range s[:len(s)-1] {
		assert.True(t, tk.Joint, "token %d", i)
	}

	c := Comma([]Stream{Stream{}.Ident("a"), Stream{}.Ident("b"), nil})
	assert.Equal(t, "a , b ,", c.String())
	assert.Len(t, Comma(nil), 0)
}

func TestGroupBrace(t *testing.T) {
	s := Stream{}.Group("{", "}", Stream{}.Keyword("break").Punct(";"))

	assert.False(t, s[0].Joint)
	assert.Equal(t, "{ break ; }", s.String())
}

func TestStrAndDoc(t *testing.T) {
	s := Stream{}.Doc("say \"hi\"").Str("a\nb")

	assert.Equal(t, `#[doc = "say \"hi\""] "a\nb"`, s.String())
	assert.Equal(t, Literal, s[1].Kind)
	assert.Equal(t, "doc", s[0].Kind.String())
}
