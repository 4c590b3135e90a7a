// Package versioning tests semantic version parsing, incrementing and next-version computation.
// Related: internal/versioning/calculator.go, internal/versioning/semver.go
// Tags: versioning, semver, override, increment

package versioning

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompute_Increment(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		current string
		inc     IncrementType
		want    string
	}{
		"minor resets patch":              {current: "1.2.3", inc: IncrementMinor, want: "1.3.0"},
		"major resets minor and patch":    {current: "1.2.3", inc: IncrementMajor, want: "2.0.0"},
		"patch bumps patch only":          {current: "1.2.3", inc: IncrementPatch, want: "1.2.4"},
		"v prefix accepted":               {current: "v0.9.9", inc: IncrementPatch, want: "0.9.10"},
		"build metadata dropped":          {current: "1.2.3+build.7", inc: IncrementPatch, want: "1.2.4"},
		"prerelease major finishes":       {current: "2.0.0-rc.1", inc: IncrementMajor, want: "2.0.0"},
		"prerelease major bumps if minor": {current: "2.1.0-rc.1", inc: IncrementMajor, want: "3.0.0"},
		"prerelease minor finishes":       {current: "2.1.0-beta", inc: IncrementMinor, want: "2.1.0"},
		"prerelease minor bumps if patch": {current: "2.1.1-beta", inc: IncrementMinor, want: "2.2.0"},
		"prerelease patch finishes":       {current: "2.1.1-beta", inc: IncrementPatch, want: "2.1.1"},
		"zero version":                    {current: "0.0.0", inc: IncrementMinor, want: "0.1.0"},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			info, err := Compute(tt.current, "", tt.inc)
			require.NoError(t, err)
			assert.Equal(t, tt.want, info.Next.String())
			assert.Equal(t, tt.inc, info.IncrementType)
			assert.True(t, info.Changed())
		})
	}
}

func TestCompute_DoesNotMutateCurrent(t *testing.T) {
	t.Parallel()

	current := MustParse("1.2.3")
	info := ComputeIncrement(current, IncrementMajor)

	assert.Equal(t, "1.2.3", current.String())
	assert.Equal(t, "1.2.3", info.Current.String())
	assert.Equal(t, "2.0.0", info.Next.String())
}

func TestCompute_Override(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		current  string
		override string
		inc      IncrementType
		wantNext string
		wantInc  IncrementType
	}{
		"equal override is a no-op": {
			current: "1.2.3", override: "1.2.3", wantNext: "1.2.3", wantInc: IncrementNone,
		},
		"major diff": {
			current: "1.2.3", override: "3.0.0", wantNext: "3.0.0", wantInc: IncrementMajor,
		},
		"minor diff": {
			current: "1.2.3", override: "1.4.0", wantNext: "1.4.0", wantInc: IncrementMinor,
		},
		"patch diff": {
			current: "1.2.3", override: "1.2.9", wantNext: "1.2.9", wantInc: IncrementPatch,
		},
		"override wins over increment type": {
			current: "1.2.3", override: "1.2.4", inc: IncrementMajor, wantNext: "1.2.4", wantInc: IncrementPatch,
		},
		"lower override still diffs": {
			current: "2.0.0", override: "1.9.0", wantNext: "1.9.0", wantInc: IncrementMajor,
		},
		"prerelease only difference is a no-op": {
			current: "1.2.3", override: "1.2.3-rc.1", wantNext: "1.2.3-rc.1", wantInc: IncrementNone,
		},
		"metadata only difference is a no-op": {
			current: "1.2.3", override: "1.2.3+ci.4", wantNext: "1.2.3+ci.4", wantInc: IncrementNone,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			info, err := Compute(tt.current, tt.override, tt.inc)
			require.NoError(t, err)
			assert.Equal(t, tt.wantNext, info.Next.String())
			assert.Equal(t, tt.wantInc, info.IncrementType)
			assert.Equal(t, tt.wantInc != IncrementNone, info.Changed())
		})
	}
}

func TestCompute_Errors(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		current   string
		override  string
		inc       IncrementType
		wantField string
	}{
		"invalid current":         {current: "1.2", inc: IncrementPatch, wantField: "current"},
		"garbage current":         {current: "latest", inc: IncrementPatch, wantField: "current"},
		"invalid override":        {current: "1.2.3", override: "1.x", wantField: "override"},
		"leading zero override":   {current: "1.2.3", override: "01.2.3", wantField: "override"},
		"four component override": {current: "1.2.3", override: "1.2.3.4", wantField: "override"},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			_, err := Compute(tt.current, tt.override, tt.inc)
			require.Error(t, err)
			assert.True(t, IsInvalidVersion(err))

			var ive *InvalidVersionError
			require.True(t, errors.As(err, &ive))
			assert.Equal(t, tt.wantField, ive.Field)
			assert.Contains(t, err.Error(), tt.wantField)
		})
	}

	t.Run("no override and no increment", func(t *testing.T) {
		t.Parallel()

		_, err := Compute("1.2.3", "", IncrementNone)
		assert.ErrorIs(t, err, ErrNoIncrement)
	})
}

func TestParse(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		input   string
		want    string
		wantErr bool
	}{
		"plain":           {input: "1.2.3", want: "1.2.3"},
		"v prefix":        {input: "v1.2.3", want: "1.2.3"},
		"prerelease":      {input: "1.0.0-alpha.1", want: "1.0.0-alpha.1"},
		"numeric pre":     {input: "1.0.0-0.3.7", want: "1.0.0-0.3.7"},
		"build":           {input: "1.0.0+20130313144700", want: "1.0.0+20130313144700"},
		"pre and build":   {input: "1.0.0-beta+exp.sha.5114f85", want: "1.0.0-beta+exp.sha.5114f85"},
		"surrounding ws":  {input: " 1.2.3\n", want: "1.2.3"},
		"two components":  {input: "1.2", wantErr: true},
		"empty":           {input: "", wantErr: true},
		"leading zero":    {input: "1.02.3", wantErr: true},
		"empty pre ident": {input: "1.2.3-", wantErr: true},
		"word":            {input: "next", wantErr: true},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			got, err := Parse(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				assert.True(t, got.IsZero())
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.String())
		})
	}
}

func TestParseField(t *testing.T) {
	t.Parallel()

	_, err := ParseField("1.x", "registry")
	require.Error(t, err)

	var ive *InvalidVersionError
	require.ErrorAs(t, err, &ive)
	assert.Equal(t, "registry", ive.Field)
	assert.Equal(t, `the registry version "1.x" is not a valid semver value`, err.Error())

	v, err := ParseField("v2.0.0", "registry")
	require.NoError(t, err)
	assert.Equal(t, "2.0.0", v.String())
}

func TestSemVer_Accessors(t *testing.T) {
	t.Parallel()

	v := MustParse("4.5.6-rc.2+sha.abc")
	assert.Equal(t, int64(4), v.Major())
	assert.Equal(t, int64(5), v.Minor())
	assert.Equal(t, int64(6), v.Patch())
	assert.Equal(t, "rc.2", v.Prerelease())
	assert.Equal(t, "sha.abc", v.Metadata())

	var zero SemVer
	assert.True(t, zero.IsZero())
	assert.Equal(t, "", zero.String())
	assert.Equal(t, int64(0), zero.Major())
}

func TestSemVer_Compare(t *testing.T) {
	t.Parallel()

	assert.Equal(t, -1, MustParse("1.2.3").Compare(MustParse("1.3.0")))
	assert.Equal(t, 1, MustParse("1.2.3").Compare(MustParse("1.2.3-rc.1")))
	assert.True(t, MustParse("1.2.3").Equal(MustParse("v1.2.3")))
}

func TestInfo_JSON(t *testing.T) {
	t.Parallel()

	info, err := Compute("1.2.3", "", IncrementMinor)
	require.NoError(t, err)

	data, err := json.Marshal(info)
	require.NoError(t, err)
	assert.JSONEq(t, `{"current_version":"1.2.3","next_version":"1.3.0","increment_type":"minor"}`, string(data))
}

func TestMustParse_Panics(t *testing.T) {
	t.Parallel()

	assert.Panics(t, func() { MustParse("nope") })
}
