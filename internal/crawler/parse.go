package crawler

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"
)

// Record는 게시판 한 줄 (필드 이름 -> 값)
type Record map[string]string

// ParseRows는 table.p-table.simple 의 tbody 행을 Record로 바꾼다.
// hasRows는 필드 수를 채운 행이 하나라도 있었는지 (종별 필터 전).
func ParseRows(r io.Reader, board Board) (records []Record, hasRows bool, err error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, false, fmt.Errorf("ParseRows(): %w", err)
	}

	records = make([]Record, 0)
	for _, row := range selectRows(doc) {
		cells := cellTexts(row)
		if len(cells) < len(board.Fields)+1 {
			continue
		}
		hasRows = true

		rec := make(Record, len(board.Fields)+1)
		for i, field := range board.Fields {
			rec[field] = cells[i+1]
		}

		typeValue, hasType := "", false
		if board.TypeKey != "" {
			typeValue, hasType = rec[board.TypeKey]
		}
		if !hasType && board.TypeConstant != "" {
			typeValue = board.TypeConstant
		}

		if board.AllowedTypes != nil {
			if typeValue == "" || !typeMatches(typeValue, board.AllowedTypes) {
				continue
			}
		}
		if typeValue != "" {
			rec[TypeField] = typeValue
		}
		records = append(records, rec)
	}
	return records, hasRows, nil
}

// 공백을 모두 지우고 비교
func normalizeType(s string) string {
	return strings.Join(strings.Fields(s), "")
}

func typeMatches(value string, allowed []string) bool {
	v := normalizeType(value)
	for _, candidate := range allowed {
		if c := normalizeType(candidate); c != "" && c == v {
			return true
		}
	}
	return false
}

func selectRows(doc *html.Node) []*html.Node {
	var rows []*html.Node
	var walk func(n *html.Node, inTable, inBody bool)
	walk = func(n *html.Node, inTable, inBody bool) {
		if n.Type == html.ElementNode {
			switch {
			case n.Data == "table" && hasClass(n, "p-table") && hasClass(n, "simple"):
				inTable = true
			case n.Data == "tbody" && inTable:
				inBody = true
			case n.Data == "tr" && inBody:
				rows = append(rows, n)
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c, inTable, inBody)
		}
	}
	walk(doc, false, false)
	return rows
}

// 행 아래의 모든 td(중첩 포함)마다 텍스트 조각을 각각 다듬어 이어 붙인다
func cellTexts(tr *html.Node) []string {
	var cells []string
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if c.Type == html.ElementNode && c.Data == "td" {
				var sb strings.Builder
				collectText(c, &sb)
				cells = append(cells, sb.String())
			}
			walk(c)
		}
	}
	walk(tr)
	return cells
}

func collectText(n *html.Node, sb *strings.Builder) {
	if n.Type == html.TextNode {
		sb.WriteString(strings.TrimSpace(n.Data))
		return
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collectText(c, sb)
	}
}

func hasClass(n *html.Node, class string) bool {
	for _, a := range n.Attr {
		if a.Key != "class" {
			continue
		}
		for _, c := range strings.Fields(a.Val) {
			if c == class {
				return true
			}
		}
	}
	return false
}
