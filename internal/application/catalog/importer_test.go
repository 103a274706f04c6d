package catalog_test

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"

	"github.com/jhoicas/Equipos-api/internal/application/catalog"
	"github.com/jhoicas/Equipos-api/internal/domain"
	"github.com/jhoicas/Equipos-api/internal/domain/repository"
	"github.com/jhoicas/Equipos-api/internal/infrastructure/memory"
	"github.com/jhoicas/Equipos-api/internal/infrastructure/xlsx"
)

func newImporter(s *memory.Store, maxBytes int64) *catalog.Importer {
	return catalog.NewImporter(memory.NewTxRunner(s), memory.NewEquipmentRepository(s), xlsx.NewReader(), maxBytes, nil)
}

func TestImport_CSVUpsertPorCodigo(t *testing.T) {
	ctx := context.Background()
	s := memory.NewStore()
	im := newImporter(s, 0)

	csvData := "codigo,tipo_de_equipos,capacidad_informada,detalles\n" +
		"E1,Zorra,2500 kg,nueva\n" +
		"E2,Grúa,,\n" +
		",,,\n"
	resp, err := im.Import(ctx, "equipos.csv", strings.NewReader(csvData))
	require.NoError(t, err)
	assert.Equal(t, 2, resp.Imported)
	require.Len(t, resp.Items, 2)
	assert.Equal(t, "2500 kg", resp.Items[0].DeclaredCapacity)

	resp, err = im.Import(ctx, "equipos.csv", strings.NewReader("code;type;detail_a\nE1;Zorra eléctrica;planilla 7\n"))
	require.NoError(t, err)
	assert.Equal(t, 1, resp.Imported)
	require.Len(t, resp.Items, 2)
	assert.Equal(t, "Zorra eléctrica", resp.Items[0].Type)
	assert.Equal(t, "planilla 7", resp.Items[0].DetailA)
}

func TestImport_RechazaLoteCompleto(t *testing.T) {
	ctx := context.Background()
	s := memory.NewStore()
	im := newImporter(s, 0)

	_, err := im.Import(ctx, "equipos.csv", strings.NewReader("codigo,tipo_de_equipos\nE1,Zorra\nE2,\n"))
	require.ErrorIs(t, err, domain.ErrValidation)
	assert.Contains(t, domain.UserMessage(err), "fila 3")

	list, err := memory.NewEquipmentRepository(s).List(ctx, repository.EquipmentFilter{})
	require.NoError(t, err)
	assert.Empty(t, list, "ninguna fila se escribe")

	_, err = im.Import(ctx, "equipos.csv", strings.NewReader("codigo,capacidad\nE1,10\n"))
	require.ErrorIs(t, err, domain.ErrValidation)
	assert.Contains(t, domain.UserMessage(err), "tipo_de_equipos")

	_, err = im.Import(ctx, "equipos.pdf", strings.NewReader("x"))
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestImport_LimiteDeTamaño(t *testing.T) {
	im := newImporter(memory.NewStore(), 10)
	_, err := im.Import(context.Background(), "equipos.csv", strings.NewReader("codigo,tipo_de_equipos\nE1,Zorra\n"))
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestParseCSV_Windows1252(t *testing.T) {
	encoded, err := charmap.Windows1252.NewEncoder().String("codigo,tipo_de_equipos\nE1,Grúa\n")
	require.NoError(t, err)

	rows, err := catalog.ParseCSV([]byte(encoded))
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Grúa", rows[1][1])
}

func TestImport_XLSX(t *testing.T) {
	ctx := context.Background()
	var buf bytes.Buffer
	require.NoError(t, xlsx.WriteRows(&buf, "Equipos", [][]string{
		{"Código", "Tipo de equipos", "Capacidad informada"},
		{"X1", "Autoelevador", "3 t"},
	}))

	s := memory.NewStore()
	resp, err := newImporter(s, 0).Import(ctx, "catalogo.XLSX", &buf)
	require.NoError(t, err)
	assert.Equal(t, 1, resp.Imported)
	assert.Equal(t, "X1", resp.Items[0].Code)
	assert.Equal(t, "3 t", resp.Items[0].DeclaredCapacity)
}
