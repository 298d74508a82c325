/**
* Name: 			crawler.go
* Description: 		상록구청 의료기관/약국/보건소 게시판 수집
* Workflow: 		게시판별 페이지 요청, 표 파싱, 종별 필터, 게시판별 JSON과 통합 facilities.json 저장
 */
package crawler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"AnsanMomCare/internal/metrics"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	CombinedFile = "facilities.json"

	defaultTimeout   = 20 * time.Second
	defaultUserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) " +
		"AppleWebKit/537.36 (KHTML, like Gecko) Chrome/118.0.0.0 Safari/537.36"
)

type Options struct {
	BaseURL string
	Timeout time.Duration
	// 같은 게시판의 페이지 요청 사이 대기
	Delay time.Duration
	// 동시에 수집할 게시판 수
	Concurrency int
}

type Crawler struct {
	baseURL     string
	httpClient  *http.Client
	delay       time.Duration
	concurrency int
	log         *zap.Logger
}

// BoardResult는 게시판 하나의 수집 결과
type BoardResult struct {
	Board    Board
	Records  []Record
	Warnings []string
}

func New(opts Options, log *zap.Logger) *Crawler {
	if log == nil {
		log = zap.NewNop()
	}
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	if opts.Timeout <= 0 {
		opts.Timeout = defaultTimeout
	}
	if opts.Concurrency <= 0 {
		opts.Concurrency = 1
	}
	return &Crawler{
		baseURL:     opts.BaseURL,
		httpClient:  &http.Client{Timeout: opts.Timeout},
		delay:       opts.Delay,
		concurrency: opts.Concurrency,
		log:         log.Named("crawler"),
	}
}

// FetchPage는 게시판 목록 한 페이지의 HTML을 가져온다
func (c *Crawler) FetchPage(ctx context.Context, board Board, page int) ([]byte, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return nil, fmt.Errorf("FetchPage(): invalid base url: %w", err)
	}
	q := u.Query()
	q.Set("key", board.Key)
	q.Set("bbs_code", board.BBSCode)
	q.Set("bbs_seq", "")
	q.Set("sch_type", "sj")
	q.Set("sch_text", "")
	q.Set("currentPage", strconv.Itoa(page))
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", defaultUserAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		metrics.UpstreamRequests.WithLabelValues("crawler", "error").Inc()
		return nil, fmt.Errorf("FetchPage(): %s page %d: %w", board.Name, page, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		metrics.UpstreamRequests.WithLabelValues("crawler", "status_"+strconv.Itoa(resp.StatusCode)).Inc()
		return nil, fmt.Errorf("FetchPage(): %s page %d: unexpected status %d", board.Name, page, resp.StatusCode)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, 16<<20))
	if err != nil {
		metrics.UpstreamRequests.WithLabelValues("crawler", "error").Inc()
		return nil, fmt.Errorf("FetchPage(): read body: %w", err)
	}
	metrics.UpstreamRequests.WithLabelValues("crawler", "ok").Inc()
	return body, nil
}

// CrawlBoard는 게시판의 모든 페이지를 차례로 수집한다. 한 페이지라도 실패하면 중단.
func (c *Crawler) CrawlBoard(ctx context.Context, board Board) (BoardResult, error) {
	result := BoardResult{Board: board, Records: make([]Record, 0)}
	for page := board.FirstPage; page <= board.LastPage; page++ {
		if page > board.FirstPage && c.delay > 0 {
			select {
			case <-ctx.Done():
				return result, ctx.Err()
			case <-time.After(c.delay):
			}
		}

		body, err := c.FetchPage(ctx, board, page)
		if err != nil {
			return result, err
		}
		records, hasRows, err := ParseRows(bytes.NewReader(body), board)
		if err != nil {
			return result, err
		}

		if len(records) == 0 {
			warning := fmt.Sprintf("경고: %d페이지에서 수집된 데이터가 없습니다.", page)
			if hasRows {
				warning = fmt.Sprintf("경고: %d페이지에서 조건에 맞는 데이터가 없습니다.", page)
			}
			c.log.Warn("CrawlBoard(): "+warning, zap.String("board", board.Name), zap.Int("page", page))
			result.Warnings = append(result.Warnings, warning)
			continue
		}
		result.Records = append(result.Records, records...)
	}
	return result, nil
}

// Run은 게시판들을 수집해 outDir에 게시판별 파일과 통합 파일을 쓴다
func (c *Crawler) Run(ctx context.Context, boards []Board, outDir string) ([]BoardResult, error) {
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return nil, fmt.Errorf("Run(): create %s: %w", outDir, err)
	}

	results := make([]BoardResult, len(boards))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.concurrency)
	for i, board := range boards {
		i, board := i, board
		g.Go(func() error {
			res, err := c.CrawlBoard(gctx, board)
			if err != nil {
				return err
			}
			path := filepath.Join(outDir, board.OutputFile())
			if err := Save(path, res.Records); err != nil {
				return err
			}
			c.log.Info("Run(): board saved",
				zap.String("board", board.Name), zap.Int("count", len(res.Records)), zap.String("path", path))
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	// 통합 파일은 게시판 순서대로
	all := make([]Record, 0)
	for _, res := range results {
		all = append(all, res.Records...)
	}
	combined := filepath.Join(outDir, CombinedFile)
	if err := Save(combined, all); err != nil {
		return nil, err
	}
	c.log.Info("Run(): combined saved", zap.Int("count", len(all)), zap.String("path", combined))
	return results, nil
}

// Save는 한글을 그대로 둔 채 들여쓰기 2칸 JSON으로 저장한다
func Save(path string, records []Record) error {
	if records == nil {
		records = []Record{}
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(records); err != nil {
		return fmt.Errorf("Save(): encode: %w", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("Save(): write %s: %w", path, err)
	}
	return nil
}
