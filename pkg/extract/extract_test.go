package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlainText_ExtractText(t *testing.T) {
	ex := NewPlainText()

	tests := []struct {
		name     string
		filename string
		data     []byte
		want     string
		wantErr  bool
	}{
		{
			name:     "simple text",
			filename: "report.txt",
			data:     []byte("Hemoglobin: 13.5 g/dL\nWBC: 6.2"),
			want:     "Hemoglobin: 13.5 g/dL\nWBC: 6.2",
		},
		{
			name:     "trims surrounding whitespace",
			filename: "report.txt",
			data:     []byte("  CBC results  \n"),
			want:     "CBC results",
		},
		{
			name:     "strips BOM",
			filename: "report.txt",
			data:     append([]byte{0xEF, 0xBB, 0xBF}, []byte("Glucose: 95 mg/dL")...),
			want:     "Glucose: 95 mg/dL",
		},
		{
			name:     "arabic text",
			filename: "report-ar.txt",
			data:     []byte("الهيموغلوبين: 13.5"),
			want:     "الهيموغلوبين: 13.5",
		},
		{
			name:     "empty file",
			filename: "empty.txt",
			data:     nil,
			wantErr:  true,
		},
		{
			name:     "whitespace only",
			filename: "blank.txt",
			data:     []byte("   \n\t"),
			wantErr:  true,
		},
		{
			name:     "pdf rejected",
			filename: "report.pdf",
			data:     []byte("%PDF-1.7 ..."),
			wantErr:  true,
		},
		{
			name:     "invalid utf8",
			filename: "report.txt",
			data:     []byte{0xFF, 0xFE, 0x41},
			wantErr:  true,
		},
		{
			name:     "embedded null byte",
			filename: "report.bin",
			data:     []byte("text\x00more"),
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ex.ExtractText(tt.filename, tt.data)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
