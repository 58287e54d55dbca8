package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeSnapshot_NilEncodesAsEmptyArray(t *testing.T) {
	data, err := EncodeSnapshot(nil)
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, string(data))
}

func TestSnapshotCodec_RoundTrip(t *testing.T) {
	in := Snapshot{
		{ID: "1", Title: "Organic Coffee Beans", Price: 14.99, Quantity: 2},
		{ID: "3", Title: "Organic Honey", Price: 9.99, Quantity: 1},
	}

	data, err := EncodeSnapshot(in)
	require.NoError(t, err)

	out, err := DecodeSnapshot(data)
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestDecodeSnapshot_RejectsMalformedPayloads(t *testing.T) {
	cases := map[string]string{
		"null payload":  `null`,
		"not json":      `{broken`,
		"wrong shape":   `{"1":2}`,
		"zero quantity": `[{"id":"1","quantity":0}]`,
		"missing id":    `[{"title":"x","quantity":1}]`,
		"duplicate id":  `[{"id":"1","quantity":1},{"id":"1","quantity":2}]`,
		"negative qty":  `[{"id":"1","quantity":-3}]`,
	}
	for name, payload := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := DecodeSnapshot([]byte(payload))
			assert.ErrorIs(t, err, ErrMalformedSnapshot)
		})
	}
}

func TestLegacyCodec_RoundTrip(t *testing.T) {
	in := Snapshot{
		{ID: "1", Title: "Organic Coffee Beans", Price: 14.99, Quantity: 2},
		{ID: "3", Title: "Organic Honey", Price: 9.99, Quantity: 5},
	}

	data, err := EncodeLegacy(in)
	require.NoError(t, err)
	assert.JSONEq(t, `{"1":2,"3":5}`, string(data))

	out, err := DecodeLegacy(data)
	require.NoError(t, err)

	// The legacy map keeps only id and quantity; metadata is gone.
	require.Len(t, out, 2)
	assert.Equal(t, LineItem{ID: "1", Quantity: 2}, out[0])
	assert.Equal(t, LineItem{ID: "3", Quantity: 5}, out[1])
}

func TestDecodeLegacy_Rejects(t *testing.T) {
	for name, payload := range map[string]string{
		"null payload":  `null`,
		"not json":      `[1,2]`,
		"zero quantity": `{"1":0}`,
		"empty id":      `{"":2}`,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := DecodeLegacy([]byte(payload))
			assert.ErrorIs(t, err, ErrMalformedSnapshot)
		})
	}
}

func TestSnapshot_TotalAndCount(t *testing.T) {
	s := Snapshot{
		{ID: "1", Price: 14.99, Quantity: 2},
		{ID: "3", Price: 9.99, Quantity: 3},
	}
	assert.InDelta(t, 2*14.99+3*9.99, s.Total(), 1e-9)
	assert.Equal(t, 5, s.Count())
	assert.Equal(t, 0.0, Snapshot{}.Total())
}

func TestSnapshot_CloneIsIndependent(t *testing.T) {
	s := Snapshot{{ID: "1", Quantity: 1}}
	c := s.Clone()
	c[0].Quantity = 99
	assert.Equal(t, 1, s[0].Quantity)
}

func TestProduct_Validate(t *testing.T) {
	assert.NoError(t, Product{ID: "1", Title: "ok", Price: 0, Stock: 0}.Validate())
	assert.Error(t, Product{ID: "", Title: "no id"}.Validate())
	assert.Error(t, Product{ID: "1", Price: -1}.Validate())
	assert.Error(t, Product{ID: "1", Stock: -1}.Validate())
}

func TestProduct_PrimaryImage(t *testing.T) {
	assert.Equal(t, "a.jpg", Product{Images: []string{"a.jpg", "b.jpg"}, Image: "legacy.jpg"}.PrimaryImage())
	assert.Equal(t, "legacy.jpg", Product{Image: "legacy.jpg"}.PrimaryImage())
	assert.Equal(t, "", Product{}.PrimaryImage())
}
