/*
Package syn implements the SynBlog post format.

A post file starts with four header lines (title, comma separated tags, posted
time in Unix seconds, summary) followed by a body of blocks separated by blank
lines:

	My first post
	go,blog
	1700000000
	A short summary

	#Introduction

	Some text,
	continued on a second line.

	.img cat.png|A cat|width:100%

	.code fmt.Println("hi")

	---

Each block is one Element. Blocks are classified by their first characters
(see ParseLine); anything not recognised is a Text paragraph.

Parsing is lenient: an unparsable posted field becomes 0 and a block that
fails to parse is dropped. Element payloads are emitted as HTML without
escaping, so post sources must be trusted.
*/
package syn
