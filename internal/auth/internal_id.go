package auth

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf16"

	"AnsanMomCare/internal/models"
)

const fnvOffsetBasis uint32 = 0x811c9dc5

// fnv1a는 UTF-16 코드 유닛 단위로 FNV-1a(32bit)를 계산해 8자리 hex로 반환
func fnv1a(units []uint16) string {
	hash := fnvOffsetBasis
	for _, u := range units {
		hash ^= uint32(u)
		hash += (hash << 1) + (hash << 4) + (hash << 7) + (hash << 8) + (hash << 24)
	}
	return fmt.Sprintf("%08x", hash)
}

func optionalInt(v *int) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(*v)
}

// MakeInternalID는 프로필 필드로부터 16자리 사용자 식별자를 만든다.
// 암호학적 의미는 없으며 충돌 처리도 하지 않는다.
func MakeInternalID(in models.SignupInput) string {
	pregnant := "N"
	if in.IsPregnant {
		pregnant = "Y"
	}
	base := strings.Join([]string{
		in.Username,
		in.Password,
		in.Address,
		in.Name,
		strconv.Itoa(in.Age),
		pregnant,
		optionalInt(in.Weeks),
		optionalInt(in.ChildrenCount),
		optionalInt(in.IncomeDecile),
	}, "|")

	forward := utf16.Encode([]rune(base))
	reversed := make([]uint16, len(forward))
	for i, u := range forward {
		reversed[len(forward)-1-i] = u
	}
	return fnv1a(forward) + fnv1a(reversed)
}
