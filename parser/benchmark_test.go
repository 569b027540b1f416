package parser

import (
	"fmt"
	"strings"
	"testing"
)

// syntheticMap generates a map of roughly the shape real station maps take
// (many distinct prefab keys, one large block), without redistributing any of
// the real station maps the original crate benchmarked against.
func syntheticMap(keys, blockWidth, blockHeight int) string {
	var sb strings.Builder

	for i := 0; i < keys; i++ {
		key := letterKey(i)
		fmt.Fprintf(&sb, "\"%s\" = (/obj/structure/table,/turf/open/floor/plating,/area/station/maintenance)\n", key)
	}

	row := strings.Repeat(letterKey(0), blockWidth)
	fmt.Fprintf(&sb, "(1,1,1) = {\"\n")
	for y := 0; y < blockHeight; y++ {
		sb.WriteString(row)
		sb.WriteString("\n")
	}
	sb.WriteString("\"}\n")
	return sb.String()
}

func BenchmarkParse(b *testing.B) {
	text := syntheticMap(200, 255, 255)
	b.SetBytes(int64(len(text)))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := Parse("bench", text); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkDispatch(b *testing.B) {
	text := syntheticMap(200, 255, 255)
	b.SetBytes(int64(len(text)))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, _, err := dispatch(text, func(string) {}); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkParseManyKeys(b *testing.B) {
	text := syntheticMap(600, 10, 10)
	b.SetBytes(int64(len(text)))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := Parse("bench-keys", text); err != nil {
			b.Fatal(err)
		}
	}
}
