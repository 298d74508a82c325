package intent

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetectPostnatalCareIntent(t *testing.T) {
	tests := []struct {
		text string
		want bool
	}{
		{"근처 산후조리원 알려줘", true},
		{"산후 조리원 추천해줘", true},
		{"조리원 어디가 좋아?", true},
		{"산후조리원 비용이 궁금해", false},
		{"근처 소아과 알려줘", false},
		{"", false},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			assert.Equal(t, tt.want, DetectPostnatalCareIntent(tt.text))
		})
	}
}

func TestExtractSigunFromAddress(t *testing.T) {
	tests := []struct {
		address string
		want    string
	}{
		{"경기도 안산시 상록구 한대역로 120", "안산시"},
		{"경기 수원 팔달구", "수원시"},
		{"남양주 어딘가", "남양주시"},
		{"서울특별시 강남구 테헤란로", "서울특별시"},
		{"강원도 평창군 대관령면", "평창군"},
		{"no korean here", ""},
		{"   ", ""},
	}
	for _, tt := range tests {
		t.Run(tt.address, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractSigunFromAddress(tt.address))
		})
	}
}
