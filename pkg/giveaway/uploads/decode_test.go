package uploads

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tendant/simple-giveaway/pkg/giveaway"
)

func TestDecodeRequest(t *testing.T) {
	req, err := DecodeRequest(strings.NewReader(
		`{"files":[{"size":1024,"type":"image/png","index":1},{"size":2e3,"type":"image/jpeg","index":0}],"prefix":"avatars"}`))
	require.NoError(t, err)

	assert.Equal(t, "avatars", req.Prefix)
	assert.Equal(t, []giveaway.UploadRequestItem{
		{Size: 1024, Type: "image/png", Index: 1},
		{Size: 2000, Type: "image/jpeg", Index: 0},
	}, req.Files)
}

func TestDecodeRequest_InvalidJSON(t *testing.T) {
	for _, body := range []string{"", "{", `{"files":[}`, "not json"} {
		_, err := DecodeRequest(strings.NewReader(body))

		var ve *giveaway.ValidationError
		require.ErrorAs(t, err, &ve, body)
		assert.Equal(t, "Invalid JSON body", ve.Message)
	}
}

func TestDecodeRequest_ShapeErrors(t *testing.T) {
	tests := []struct {
		name  string
		body  string
		field string
	}{
		{"not an object", `[1,2]`, ""},
		{"missing files", `{}`, "files"},
		{"files not array", `{"files":"x"}`, "files"},
		{"missing size", `{"files":[{"type":"image/png","index":0}]}`, "files.0.size"},
		{"fractional size", `{"files":[{"size":1.5,"type":"image/png","index":0}]}`, "files.0.size"},
		{"string size", `{"files":[{"size":"10","type":"image/png","index":0}]}`, "files.0.size"},
		{"missing type", `{"files":[{"size":1,"index":0}]}`, "files.0.type"},
		{"numeric type", `{"files":[{"size":1,"type":5,"index":0}]}`, "files.0.type"},
		{"item not object", `{"files":[3]}`, "files.0"},
		{"numeric prefix", `{"files":[{"size":1,"type":"image/png","index":0}],"prefix":7}`, "prefix"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeRequest(strings.NewReader(tt.body))

			var ve *giveaway.ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, "Validation error", ve.Message)

			issues, ok := ve.Details.([]giveaway.Issue)
			require.True(t, ok)
			require.NotEmpty(t, issues)
			assert.Equal(t, tt.field, issues[0].Field)
		})
	}
}

func TestDecodeRequest_NullPrefixIsAbsent(t *testing.T) {
	req, err := DecodeRequest(strings.NewReader(`{"files":[{"size":1,"type":"image/png","index":0}],"prefix":null}`))
	require.NoError(t, err)
	assert.Empty(t, req.Prefix)
}

func TestDecodeRequest_LeavesRangesToValidation(t *testing.T) {
	req, err := DecodeRequest(strings.NewReader(`{"files":[{"size":0,"type":"image/png","index":-1}]}`))
	require.NoError(t, err)
	assert.Equal(t, []giveaway.UploadRequestItem{{Size: 0, Type: "image/png", Index: -1}}, req.Files)
}
