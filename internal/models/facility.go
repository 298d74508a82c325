package models

type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// 경기도 산후조리원 (PostnatalCare OpenAPI 정규화 결과)
type PostnatalCareItem struct {
	ID            string       `json:"id"`
	Name          string       `json:"name"`
	Address       string       `json:"address"`
	Phone         string       `json:"phone"`
	Status        string       `json:"status"`
	SigunName     string       `json:"sigunName"`
	Capacity      *float64     `json:"capacity"`
	NurseCount    *float64     `json:"nurseCount"`
	NurseAidCount *float64     `json:"nurseAidCount"`
	Coordinates   *Coordinates `json:"coordinates"`
	LicenseDate   *string      `json:"licenseDate"`
	Type          string       `json:"type"`
}

type PostnatalCareResponse struct {
	Total int                 `json:"total"`
	Items []PostnatalCareItem `json:"items"`
}

// 구청 게시판에서 수집한 의료기관
type MedicalFacility struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	Address     string       `json:"address"`
	Phone       string       `json:"phone"`
	Category    string       `json:"category,omitempty"`
	Coordinates *Coordinates `json:"coordinates,omitempty"`
	DistanceKm  *float64     `json:"distanceKm,omitempty"`
}
