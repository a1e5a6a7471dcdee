package export

import (
	"bytes"
	"strings"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExportBackup(t *testing.T) {
	store, _ := seededStore(t, sample)

	var buf bytes.Buffer
	n, err := ExportBackup(store, &buf, Options{})
	require.NoError(t, err)
	assert.Equal(t, 4, n)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))
	assert.Equal(t, "Asha", doc["userName"])

	mealsDoc := doc["meals"].(map[string]any)
	assert.Len(t, mealsDoc, 4)
	assert.NotContains(t, mealsDoc, "theme")
	assert.Equal(t, "not json", mealsDoc["2024-06-08"])
	assert.Contains(t, buf.String(), "\n  \"meals\": {")
}

func TestBackupRoundTrip(t *testing.T) {
	for _, compress := range []bool{false, true} {
		name := "plain"
		if compress {
			name = "zstd"
		}
		t.Run(name, func(t *testing.T) {
			source, _ := seededStore(t, sample)

			var buf bytes.Buffer
			_, err := ExportBackup(source, &buf, Options{Compress: compress})
			require.NoError(t, err)
			if compress {
				assert.True(t, bytes.HasPrefix(buf.Bytes(), zstdMagic))
			}

			target, provider := seededStore(t, map[string]string{
				"userName":   "Someone",
				"2020-01-01": `{"lunch":true,"dinner":true}`,
				"theme":      "light",
			})

			b, err := ParseBackup(&buf)
			require.NoError(t, err)
			n, err := ImportBackup(target, b)
			require.NoError(t, err)
			assert.Equal(t, 4, n)

			sourceKeys, err := source.Keys()
			require.NoError(t, err)
			targetKeys, err := target.Keys()
			require.NoError(t, err)
			assert.Equal(t, sourceKeys, targetKeys)

			for _, k := range sourceKeys {
				assert.True(t, source.Read(k).Equal(target.Read(k)), "day %s", k)
			}

			name, err := target.UserName()
			require.NoError(t, err)
			assert.Equal(t, "Asha", name)

			theme, ok, _ := provider.Get("theme")
			assert.True(t, ok)
			assert.Equal(t, "light", theme)
		})
	}
}

func TestParseBackupMalformed(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{name: "not json", doc: "hello"},
		{name: "missing name", doc: `{"meals":{}}`},
		{name: "empty name", doc: `{"userName":"  ","meals":{}}`},
		{name: "missing meals", doc: `{"userName":"Asha"}`},
		{name: "null meals", doc: `{"userName":"Asha","meals":null}`},
		{name: "array", doc: `[]`},
		{name: "truncated zstd", doc: string(zstdMagic) + "junk"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseBackup(strings.NewReader(tt.doc))
			assert.ErrorIs(t, err, ErrMalformedBackup)
		})
	}
}

func TestImportBackupSkipsNonDateKeys(t *testing.T) {
	store, provider := seededStore(t, map[string]string{"2024-01-01": `{"lunch":true,"dinner":false}`})

	b, err := ParseBackup(strings.NewReader(`{
		"userName": "Ravi",
		"meals": {
			"2024-06-10": {"lunch": true, "dinner": false},
			"settings": {"theme": "dark"},
			"2024-02-30": {"lunch": true, "dinner": true}
		}
	}`))
	require.NoError(t, err)

	n, err := ImportBackup(store, b)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	keys, err := provider.Keys()
	require.NoError(t, err)
	assert.Equal(t, []string{"2024-02-30", "2024-06-10", "userName"}, keys)

	raw, _, _ := provider.Get("2024-06-10")
	assert.Equal(t, `{"lunch":true,"dinner":false}`, raw)
}

func TestImportBackupRejectsBeforeWriting(t *testing.T) {
	store, provider := seededStore(t, map[string]string{
		"userName":   "Asha",
		"2024-01-01": `{"lunch":true,"dinner":false}`,
	})

	_, err := ImportBackup(store, Backup{UserName: "", Meals: nil})
	assert.ErrorIs(t, err, ErrMalformedBackup)

	keys, _ := provider.Keys()
	assert.Equal(t, []string{"2024-01-01", "userName"}, keys)
}

func TestBackupRoundTripKeepsStoredValues(t *testing.T) {
	stored := map[string]string{
		"2024-06-10": `{"lunch":true,"dinner":false,"lunchTime":"2024-06-10T12:00:00Z"}`,
		"2024-06-11": `{"lunch":"yes","dinner":false}`,
		"2024-13-45": `{"lunch":true,"dinner":true}`,
		"2024-06-12": `not json`,
		"2024-06-13": `{ "lunch": true, "dinner": true }`,
		"2024-06-14": `"quoted"`,
		"2024-06-15": `{"note":"<b>&</b>","lunch":false,"dinner":false}`,
		"2024-06-16": `null`,
	}
	source, _ := seededStore(t, stored)
	require.NoError(t, source.SetUserName("Asha"))

	var buf bytes.Buffer
	n, err := ExportBackup(source, &buf, Options{})
	require.NoError(t, err)
	assert.Equal(t, len(stored), n)

	target, provider := seededStore(t, map[string]string{"theme": "dark"})
	b, err := ParseBackup(&buf)
	require.NoError(t, err)
	n, err = ImportBackup(target, b)
	require.NoError(t, err)
	assert.Equal(t, len(stored), n)

	for key, want := range stored {
		got, ok, err := provider.Get(key)
		require.NoError(t, err)
		if assert.True(t, ok, "%s missing after import", key) {
			assert.Equal(t, want, got, "value of %s", key)
		}
	}
	theme, _, _ := provider.Get("theme")
	assert.Equal(t, "dark", theme)
}

func TestImportBackupCompactsHandEditedRecords(t *testing.T) {
	store, provider := seededStore(t, nil)

	b, err := ParseBackup(strings.NewReader(`{
		"userName": "Ravi",
		"meals": {
			"2024-06-10": {
				"lunch": true,
				"dinner": false
			}
		}
	}`))
	require.NoError(t, err)
	_, err = ImportBackup(store, b)
	require.NoError(t, err)

	raw, _, _ := provider.Get("2024-06-10")
	assert.Equal(t, `{"lunch":true,"dinner":false}`, raw)
}
