package trait_test

import (
	"errors"
	"testing"

	"github.com/Descanonge/neba-sub001/config/trait"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScalar_Validate(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name    string
		trait   trait.Trait
		input   any
		want    any
		wantErr bool
	}{
		{"int from int", trait.Int(0), 3, 3, false},
		{"int from int64", trait.Int(0), int64(3), 3, false},
		{"int from uint8", trait.Int(0), uint8(3), 3, false},
		{"int from integral float", trait.Int(0), 3.0, 3, false},
		{"int from fractional float", trait.Int(0), 3.5, nil, true},
		{"int from large integral float", trait.Int(0), 9.007199254740992e15, 9007199254740992, false},
		{"int from float above range", trait.Int(0), 1e19, nil, true},
		{"int from float at range bound", trait.Int(0), 9.223372036854775808e18, nil, true},
		{"int from float below range", trait.Int(0), -1e19, nil, true},
		{"int from string", trait.Int(0), "3", nil, true},
		{"int rejects nil", trait.Int(0), nil, nil, true},
		{"int allows nil", trait.Int(0, trait.WithAllowNone(true)), nil, nil, false},
		{"float from int", trait.Float(0), 2, 2.0, false},
		{"float from float32", trait.Float(0), float32(0.5), 0.5, false},
		{"float from bool", trait.Float(0), true, nil, true},
		{"bool", trait.Bool(false), true, true, false},
		{"bool from int", trait.Bool(false), 1, nil, true},
		{"string", trait.String(""), "abc", "abc", false},
		{"string from int", trait.String(""), 1, nil, true},
		{"enum member", trait.Enum([]string{"a", "b"}, "a"), "b", "b", false},
		{"enum non member", trait.Enum([]string{"a", "b"}, "a"), "c", nil, true},
		{"any nil", trait.Any(nil), nil, nil, false},
		{"any list", trait.Any(nil), []any{1, "a"}, []any{1, "a"}, false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			got, err := tc.trait.Validate(tc.input)
			if tc.wantErr {
				require.Error(t, err)
				require.ErrorIs(t, err, trait.ErrValidation)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestScalar_FromString(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name    string
		trait   trait.Trait
		input   string
		want    any
		wantErr bool
	}{
		{"int", trait.Int(0), " 42 ", 42, false},
		{"int invalid", trait.Int(0), "4.2", nil, true},
		{"float", trait.Float(0), "1e3", 1000.0, false},
		{"bool", trait.Bool(false), "true", true, false},
		{"bool invalid", trait.Bool(false), "yes please", nil, true},
		{"string", trait.String(""), " raw ", " raw ", false},
		{"enum", trait.Enum([]string{"x"}, "x"), "x", "x", false},
		{"none when allowed", trait.Int(0, trait.WithAllowNone(true)), "None", nil, false},
		{"none when not allowed", trait.Int(0), "None", nil, true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			got, err := tc.trait.FromString(tc.input)
			if tc.wantErr {
				require.ErrorIs(t, err, trait.ErrValidation)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestTrait_Default(t *testing.T) {
	t.Parallel()

	tr := trait.List(trait.Int(0), trait.WithDefault([]any{1, 2}))

	first, ok := tr.Default().([]any)
	require.True(t, ok)

	first[0] = 99

	assert.Equal(t, []any{1, 2}, tr.Default(), "default must not be shared")
	assert.Equal(t, 5, trait.Int(5).Default())
	assert.Equal(t, "help", trait.Int(5, trait.WithHelp("help")).Help())
}

func TestValidationError_Message(t *testing.T) {
	t.Parallel()

	_, err := trait.Int(0).Validate("abc")
	require.Error(t, err)

	var verr *trait.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "an int", verr.Kind)
	assert.Contains(t, err.Error(), `expected an int, got "abc" (string)`)
}

func TestList(t *testing.T) {
	t.Parallel()

	tr := trait.List(trait.Int(0))

	got, err := tr.Validate([]int{1, 2})
	require.NoError(t, err)
	assert.Equal(t, []any{1, 2}, got)

	_, err = tr.Validate([]any{1, "a"})
	require.ErrorIs(t, err, trait.ErrValidation)

	_, err = tr.Validate(1)
	require.ErrorIs(t, err, trait.ErrValidation)

	got, err = tr.FromString("[1, 2, 3]")
	require.NoError(t, err)
	assert.Equal(t, []any{1, 2, 3}, got)

	got, err = tr.FromString("4,5")
	require.NoError(t, err)
	assert.Equal(t, []any{4, 5}, got)

	got, err = tr.FromString("[]")
	require.NoError(t, err)
	assert.Equal(t, []any{}, got)

	got, err = trait.List(trait.String("")).FromString(`["a", 'b']`)
	require.NoError(t, err)
	assert.Equal(t, []any{"a", "b"}, got)

	assert.Equal(t, "a list of int", tr.Kind())
}

func TestRange_FromString(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name    string
		trait   *trait.RangeTrait
		input   string
		want    []any
		wantErr error
	}{
		{"ascending", trait.Range(trait.Int(0)), "2000:2005", []any{2000, 2001, 2002, 2003, 2004, 2005}, nil},
		{"with step", trait.Range(trait.Int(0)), "2000:2005:2", []any{2000, 2002, 2004}, nil},
		{"descending", trait.Range(trait.Int(0)), "2005:2000:2", []any{2005, 2003, 2001}, nil},
		{"descending negative step", trait.Range(trait.Int(0)), "2005:2000:-2", []any{2005, 2003, 2001}, nil},
		{"single", trait.Range(trait.Int(0)), "3:3", []any{3}, nil},
		{"floats", trait.Range(trait.Float(0)), "0.:2.:0.5", []any{0.0, 0.5, 1.0, 1.5, 2.0}, nil},
		{"list fallback", trait.Range(trait.Int(0)), "1,5,7", []any{1, 5, 7}, nil},
		{"zero step", trait.Range(trait.Int(0)), "0:5:0", nil, trait.ErrZeroStep},
		{"too long", trait.Range(trait.Int(0)), "0:1000", nil, trait.ErrRangeTooLong},
		{"custom max", trait.Range(trait.Int(0), trait.WithMaxLen(3)), "0:5", nil, trait.ErrRangeTooLong},
		{"empty step", trait.Range(trait.Int(0)), "0:5:", nil, trait.ErrValidation},
		{"bad bound", trait.Range(trait.Int(0)), "0.5:3", nil, trait.ErrValidation},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			got, err := tc.trait.FromString(tc.input)
			if tc.wantErr != nil {
				require.ErrorIs(t, err, tc.wantErr)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestRange_FromStringList(t *testing.T) {
	t.Parallel()

	got, err := trait.Range(trait.Int(0)).FromStringList([]string{"1:3", "10", "20:16:2"})
	require.NoError(t, err)
	assert.Equal(t, []any{1, 2, 3, 10, 20, 18, 16}, got)
}

func TestRange_NonNumericItem(t *testing.T) {
	t.Parallel()

	defer func() {
		r := recover()
		require.NotNil(t, r)

		err, ok := r.(error)
		require.True(t, ok)
		assert.True(t, errors.Is(err, trait.ErrRangeItem))
	}()

	trait.Range(trait.String(""))
}

func TestFixable(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name    string
		trait   trait.Trait
		input   string
		want    any
		wantErr bool
	}{
		{"single int", trait.Fixable(trait.Int(0)), "2001", 2001, false},
		{"int range", trait.Fixable(trait.Int(0)), "2001:2003", []any{2001, 2002, 2003}, false},
		{"int list", trait.Fixable(trait.Int(0)), "1,3", []any{1, 3}, false},
		{"none", trait.Fixable(trait.Int(0)), "None", nil, false},
		{"regex rejected", trait.Fixable(trait.Int(0)), "20.*", nil, true},
		{"regex with unicode", trait.Fixable(trait.Int(0), trait.WithUnicode()), "20.*", "20.*", false},
		{"list without range", trait.Fixable(trait.Int(0), trait.WithoutRange()), "1,2", []any{1, 2}, false},
		{"string list", trait.Fixable(trait.String("")), "a,b", "a,b", false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			got, err := tc.trait.FromString(tc.input)
			if tc.wantErr {
				require.ErrorIs(t, err, trait.ErrValidation)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestFixable_Validate(t *testing.T) {
	t.Parallel()

	tr := trait.Fixable(trait.Int(0))

	got, err := tr.Validate(nil)
	require.NoError(t, err)
	assert.Nil(t, got)
	assert.Nil(t, tr.Default())

	got, err = tr.Validate([]int{1, 2})
	require.NoError(t, err)
	assert.Equal(t, []any{1, 2}, got)
}

func TestEqual(t *testing.T) {
	t.Parallel()

	type opaque struct{ v int }

	assert.True(t, trait.Equal([]any{1, "a"}, []any{1, "a"}))
	assert.True(t, trait.Equal(map[string]any{"a": 1}, map[string]any{"a": 1}))
	assert.False(t, trait.Equal(1, 2))
	assert.False(t, trait.Equal(1, 1.0))
	assert.False(t, trait.Equal(opaque{1}, opaque{1}), "uncomparable values are different")
}

func TestClone(t *testing.T) {
	t.Parallel()

	orig := map[string]any{"list": []any{1, 2}}
	clone, ok := trait.Clone(orig).(map[string]any)
	require.True(t, ok)

	clone["list"].([]any)[0] = 9 //nolint:forcetypeassert

	assert.Equal(t, []any{1, 2}, orig["list"])
}
