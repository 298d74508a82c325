package crawler

// 상록구청 게시판 목록 주소
const DefaultBaseURL = "https://www.ansan.go.kr/sangnokgu/common/bbs/selectPageListBbs.do"

// 수집 결과의 종별 키
const TypeField = "종별"

// Board는 게시판 하나의 수집 설정
type Board struct {
	Name      string
	Key       string
	BBSCode   string
	FirstPage int
	LastPage  int
	// 게시판 표의 두 번째 칸부터 차례대로 대응되는 필드 이름
	Fields []string

	TypeKey      string
	TypeConstant string
	// nil이면 모든 종별 허용
	AllowedTypes []string
}

func (b Board) OutputFile() string {
	return b.Name + ".json"
}

var DefaultBoards = []Board{
	{
		Name:         "medical_facilities",
		Key:          "1539",
		BBSCode:      "B0170",
		FirstPage:    1,
		LastPage:     3,
		Fields:       []string{"기관명", "기관종명", "주소", "전화번호"},
		TypeKey:      "기관종명",
		AllowedTypes: []string{"병원", "종합병원"},
	},
	{
		Name:         "pharmacies",
		Key:          "1540",
		BBSCode:      "B0171",
		FirstPage:    1,
		LastPage:     12,
		Fields:       []string{"기관명", "전화번호", "관리기관", "주소"},
		TypeConstant: "일반약국",
	},
	{
		Name:      "clinics",
		Key:       "1541",
		BBSCode:   "B0172",
		FirstPage: 1,
		LastPage:  28,
		Fields:    []string{"기관명", "전화번호", "종별", "주소"},
		TypeKey:   "종별",
		AllowedTypes: []string{
			"보건지소",
			"여성의원",
			"보건소",
			"소아과 의원",
			"산부인과 의원",
		},
	},
}

// FindBoard는 이름으로 기본 게시판 설정을 찾는다
func FindBoard(name string) (Board, bool) {
	for _, b := range DefaultBoards {
		if b.Name == name {
			return b, true
		}
	}
	return Board{}, false
}
