package extract

import (
	"strings"
	"testing"
)

func BenchmarkFromHTML(b *testing.B) {
	small := []byte("<article><h1>t</h1><p>a</p></article>")
	large := makeHTML(200)

	b.Run("small", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			_ = FromHTML(small)
		}
	})
	b.Run("large", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			_ = FromHTML(large)
		}
	})
}

func makeHTML(paras int) []byte {
	builder := new(strings.Builder)
	builder.WriteString("<article>")
	for i := 0; i < paras; i++ {
		builder.WriteString("<h2>Heading</h2><p>")
		builder.WriteString(sampleText)
		builder.WriteString("</p>")
	}
	builder.WriteString("</article>")
	return []byte(builder.String())
}

const sampleText = "Neighborhood pages help buyers compare schools, commute times and price trends before they ever book a showing."
