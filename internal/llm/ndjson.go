package llm

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"io"
)

const maxLineSize = 1 << 20

// NDJSONReader는 줄 단위 JSON 스트림을 읽는다.
// 빈 줄과 깨진 줄은 건너뛰고, 개행 없이 끝나는 마지막 줄도 파싱한다.
type NDJSONReader struct {
	r   *bufio.Reader
	eof bool
}

func NewNDJSONReader(r io.Reader) *NDJSONReader {
	return &NDJSONReader{r: bufio.NewReaderSize(r, 32*1024)}
}

// Next는 다음 JSON 값을 반환한다. 스트림이 끝나면 io.EOF.
func (n *NDJSONReader) Next() (json.RawMessage, error) {
	for !n.eof {
		line, err := n.readLine()
		if err != nil {
			if !errors.Is(err, io.EOF) {
				return nil, err
			}
			n.eof = true
		}

		trimmed := bytes.TrimSpace(line)
		if len(trimmed) == 0 || !json.Valid(trimmed) {
			continue
		}
		return json.RawMessage(trimmed), nil
	}
	return nil, io.EOF
}

// readLine은 개행까지 읽는다. 너무 긴 줄은 잘라서 버린다.
func (n *NDJSONReader) readLine() ([]byte, error) {
	var buf []byte
	tooLong := false
	for {
		chunk, err := n.r.ReadSlice('\n')
		if !tooLong && len(buf)+len(chunk) <= maxLineSize {
			buf = append(buf, chunk...)
		} else {
			tooLong = true
			buf = nil
		}
		if errors.Is(err, bufio.ErrBufferFull) {
			continue
		}
		return buf, err
	}
}
