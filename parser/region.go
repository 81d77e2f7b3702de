package parser

import (
	"bytes"

	verr "github.com/nihei9/tlgen/error"
	"github.com/nihei9/tlgen/model"
)

const (
	// FunctionsSeparator is the line that ends the types section and starts the functions section.
	FunctionsSeparator = "---functions---"

	// DefaultSkipLines covers the built-in type declarations at the top of td_api.tl.
	DefaultSkipLines = 14
)

// Region is one section of a schema file. LineOffset is the number of file lines preceding Src.
type Region struct {
	Section    model.SectionType
	Src        []byte
	LineOffset int
}

type Regions struct {
	Types     *Region
	Functions *Region
}

// SplitRegions splits a schema file at the functions separator line. A file without the separator
// consists of the types section only.
func SplitRegions(src []byte) (*Regions, error) {
	sepStart := -1
	sepEnd := -1
	sepRow := 0

	row := 0
	for p := 0; p < len(src); {
		row++
		end := bytes.IndexByte(src[p:], '\n')
		var line []byte
		var next int
		if end < 0 {
			line = src[p:]
			next = len(src)
		} else {
			line = src[p : p+end]
			next = p + end + 1
		}

		if string(bytes.TrimSuffix(line, []byte("\r"))) == FunctionsSeparator {
			if sepStart >= 0 {
				return nil, &verr.SpecError{
					Cause: synErrExtraSeparator,
					Row:   row,
					Col:   1,
				}
			}
			sepStart = p
			sepEnd = next
			sepRow = row
		}

		p = next
	}

	if sepStart < 0 {
		return &Regions{
			Types: &Region{
				Section: model.SectionTypeTypes,
				Src:     src,
			},
			Functions: &Region{
				Section: model.SectionTypeFunctions,
			},
		}, nil
	}

	return &Regions{
		Types: &Region{
			Section: model.SectionTypeTypes,
			Src:     src[:sepStart],
		},
		Functions: &Region{
			Section:    model.SectionTypeFunctions,
			Src:        src[sepEnd:],
			LineOffset: sepRow,
		},
	}, nil
}

// SkipLines returns a region without its first n whole lines. When the region has n lines or
// fewer, the result is empty.
func (r *Region) SkipLines(n int) *Region {
	src := r.Src
	skipped := 0
	for skipped < n && len(src) > 0 {
		i := bytes.IndexByte(src, '\n')
		if i < 0 {
			src = nil
		} else {
			src = src[i+1:]
		}
		skipped++
	}
	return &Region{
		Section:    r.Section,
		Src:        src,
		LineOffset: r.LineOffset + skipped,
	}
}
