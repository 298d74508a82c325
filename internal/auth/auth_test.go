package auth

import (
	"hash/fnv"
	"testing"
	"time"

	"AnsanMomCare/internal/config"
	"AnsanMomCare/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int { return &v }

func sampleInput() models.SignupInput {
	return models.SignupInput{
		Username:      "ansan_mom",
		Password:      "pw1234",
		Address:       "경기도 안산시 상록구 한대역로 120",
		Name:          "김하나",
		Age:           31,
		IsPregnant:    true,
		Weeks:         intPtr(20),
		ChildrenCount: intPtr(1),
	}
}

func TestFnv1a_MatchesStandardForASCII(t *testing.T) {
	for _, s := range []string{"", "a", "foobar", "user|pw|addr"} {
		h := fnv.New32a()
		_, _ = h.Write([]byte(s))
		units := make([]uint16, len(s))
		for i := 0; i < len(s); i++ {
			units[i] = uint16(s[i])
		}
		assert.Equalf(t, h.Sum32(), parseHex(t, fnv1a(units)), "input %q", s)
	}
}

func parseHex(t *testing.T, s string) uint32 {
	t.Helper()
	require.Len(t, s, 8)
	var v uint32
	for _, c := range s {
		v <<= 4
		switch {
		case c >= '0' && c <= '9':
			v |= uint32(c - '0')
		case c >= 'a' && c <= 'f':
			v |= uint32(c-'a') + 10
		default:
			t.Fatalf("not lower hex: %q", s)
		}
	}
	return v
}

func TestMakeInternalID_Deterministic(t *testing.T) {
	id1 := MakeInternalID(sampleInput())
	id2 := MakeInternalID(sampleInput())

	assert.Len(t, id1, 16)
	assert.Equal(t, id1, id2)
	assert.Regexp(t, `^[0-9a-f]{16}$`, id1)
}

func TestMakeInternalID_ChangesWithAnyField(t *testing.T) {
	base := MakeInternalID(sampleInput())

	mutations := map[string]func(in *models.SignupInput){
		"username":      func(in *models.SignupInput) { in.Username = "other" },
		"password":      func(in *models.SignupInput) { in.Password = "pw12345" },
		"address":       func(in *models.SignupInput) { in.Address = "경기도 수원시" },
		"name":          func(in *models.SignupInput) { in.Name = "김두나" },
		"age":           func(in *models.SignupInput) { in.Age = 32 },
		"pregnant":      func(in *models.SignupInput) { in.IsPregnant = false },
		"weeks":         func(in *models.SignupInput) { in.Weeks = nil },
		"childrenCount": func(in *models.SignupInput) { in.ChildrenCount = intPtr(2) },
		"incomeDecile":  func(in *models.SignupInput) { in.IncomeDecile = intPtr(3) },
	}
	for name, mutate := range mutations {
		in := sampleInput()
		mutate(&in)
		assert.NotEqualf(t, base, MakeInternalID(in), "changing %s must change the id", name)
	}
}

func TestGenerateAndValidateToken(t *testing.T) {
	Init(config.JWTConfig{Secret: "test-secret", Expiration: time.Hour, Issuer: "test"})

	token, err := GenerateToken("ansan_mom", "0123456789abcdef")
	require.NoError(t, err)

	claims, err := ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "ansan_mom", claims.Username)
	assert.Equal(t, "0123456789abcdef", claims.UserID)
	assert.Equal(t, "test", claims.Issuer)
}

func TestValidateToken_RejectsTampered(t *testing.T) {
	Init(config.JWTConfig{Secret: "test-secret", Expiration: time.Hour})
	token, err := GenerateToken("ansan_mom", "id")
	require.NoError(t, err)

	_, err = ValidateToken(token + "x")
	assert.Error(t, err)

	_, err = ValidateToken("not-a-token")
	assert.Error(t, err)
}

func TestValidateToken_Expired(t *testing.T) {
	Init(config.JWTConfig{Secret: "test-secret", Expiration: time.Hour})
	saved := jwtExpiration
	jwtExpiration = -time.Minute
	defer func() { jwtExpiration = saved }()

	token, err := GenerateToken("ansan_mom", "id")
	require.NoError(t, err)

	_, err = ValidateToken(token)
	require.Error(t, err)
	assert.True(t, IsExpired(err))
}
