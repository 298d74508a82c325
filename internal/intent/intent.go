/**
* Name: 			intent.go
* Description: 		사용자 발화에서 산후조리원 검색 의도와 시군 추출
 */
package intent

import (
	"regexp"
	"strings"
)

var (
	postnatalTopic = regexp.MustCompile(`(산후\s*조리원|조리원)`)
	nearWords      = regexp.MustCompile(`(근처|주변|가까운|위치|어디|추천)`)
	regionPattern  = regexp.MustCompile(`([가-힣]+시|[가-힣]+군|[가-힣]+구)`)
)

// 경기도 시군 약칭, 순서대로 검사
var sigunTable = []struct {
	keyword string
	sigun   string
}{
	{"안산", "안산시"},
	{"수원", "수원시"},
	{"성남", "성남시"},
	{"용인", "용인시"},
	{"고양", "고양시"},
	{"부천", "부천시"},
	{"화성", "화성시"},
	{"남양주", "남양주시"},
	{"안양", "안양시"},
	{"평택", "평택시"},
	{"의정부", "의정부시"},
	{"파주", "파주시"},
	{"시흥", "시흥시"},
	{"김포", "김포시"},
	{"광주", "광주시"},
	{"광명", "광명시"},
	{"군포", "군포시"},
	{"하남", "하남시"},
	{"오산", "오산시"},
	{"이천", "이천시"},
	{"양주", "양주시"},
	{"구리", "구리시"},
	{"안성", "안성시"},
	{"포천", "포천시"},
	{"의왕", "의왕시"},
	{"여주", "여주시"},
}

// DetectPostnatalCareIntent는 조리원 언급과 위치/추천 단어가 함께 있을 때 true
func DetectPostnatalCareIntent(text string) bool {
	return postnatalTopic.MatchString(text) && nearWords.MatchString(text)
}

// ExtractSigunFromAddress는 주소에서 시군 이름을 찾는다. 없으면 빈 문자열.
func ExtractSigunFromAddress(address string) string {
	address = strings.TrimSpace(address)
	if address == "" {
		return ""
	}
	for _, entry := range sigunTable {
		if strings.Contains(address, entry.keyword) {
			return entry.sigun
		}
	}
	if m := regionPattern.FindString(address); m != "" {
		return m
	}
	return ""
}
