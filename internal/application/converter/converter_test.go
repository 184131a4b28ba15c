package converter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/PatQuery-Bridge/pkg/errors"
	types "github.com/turtacn/PatQuery-Bridge/pkg/types/query"
)

func convert(t *testing.T, query string, source, target types.Dialect) *types.ConvertResponse {
	t.Helper()
	resp, err := Convert(types.ConvertRequest{
		QueryString:  query,
		SourceFormat: source,
		TargetFormat: target,
	})
	require.NoError(t, err)
	require.NotNil(t, resp)
	return resp
}

func TestConvert_GoogleToUSPTO(t *testing.T) {
	resp := convert(t, "TI=(solar) AND (anode OR cathode)", types.DialectGoogle, types.DialectUSPTO)
	assert.Empty(t, resp.Error)
	assert.Equal(t, "SET Plural=ON,BritishEquivalent=OFF TTL/solar AND (anode OR cathode)", resp.ConvertedText)
	require.NotNil(t, resp.Settings)
	assert.Equal(t, "AND", resp.Settings.DefaultOperator)
}

func TestConvert_USPTOToGoogle(t *testing.T) {
	resp := convert(t, "SET DefaultOperator=OR,Plural=ON TTL/(solar ADJ cell)", types.DialectUSPTO, types.DialectGoogle)
	assert.Empty(t, resp.Error)
	// The SET directive has no Google form and is dropped.
	assert.Equal(t, "TI=(solar ADJ cell)", resp.ConvertedText)
	assert.Nil(t, resp.Settings)
}

func TestConvert_USPTOSettingsSurvive(t *testing.T) {
	resp := convert(t, `"solar cell"`, types.DialectGoogle, types.DialectUSPTO)
	require.NotNil(t, resp.Settings)
	assert.True(t, resp.Settings.Plurals)
	assert.False(t, resp.Settings.BritishEquivalents)
	assert.Equal(t, `SET Plural=ON,BritishEquivalent=OFF "solar cell"`, resp.ConvertedText)
}

func TestConvert_ClassificationBothWays(t *testing.T) {
	resp := convert(t, "cpc:H01L3118/low", types.DialectGoogle, types.DialectUSPTO)
	assert.Equal(t, "SET Plural=ON,BritishEquivalent=OFF CPC/H01L/3118", resp.ConvertedText)

	resp = convert(t, "CPC/H01L31/18", types.DialectUSPTO, types.DialectGoogle)
	assert.Equal(t, "CPC=H01L3118", resp.ConvertedText)
}

func TestConvert_DatesBothWays(t *testing.T) {
	resp := convert(t, "after:filing:20200101", types.DialectGoogle, types.DialectUSPTO)
	assert.Equal(t, "SET Plural=ON,BritishEquivalent=OFF @APD>=1/1/2020", resp.ConvertedText)

	resp = convert(t, "@APD>=1/1/2020", types.DialectUSPTO, types.DialectGoogle)
	assert.Equal(t, "after:filing:20200101", resp.ConvertedText)
}

func TestConvert_SameDialectEchoes(t *testing.T) {
	resp := convert(t, "anything at all ((", types.DialectGoogle, types.DialectGoogle)
	assert.Equal(t, "anything at all ((", resp.ConvertedText)
	assert.Empty(t, resp.Error)
}

func TestConvert_EmptyInput(t *testing.T) {
	resp := convert(t, "   ", types.DialectGoogle, types.DialectUSPTO)
	assert.Equal(t, "", resp.ConvertedText)
	assert.Empty(t, resp.Error)
}

func TestConvert_ParseErrorKeepsOriginal(t *testing.T) {
	resp := convert(t, "((broken", types.DialectGoogle, types.DialectUSPTO)
	assert.Equal(t, "((broken", resp.ConvertedText)
	assert.NotEmpty(t, resp.Error)
}

func TestConvert_InvalidDialects(t *testing.T) {
	_, err := Convert(types.ConvertRequest{
		QueryString:  "solar",
		SourceFormat: types.DialectUnknown,
		TargetFormat: types.DialectUSPTO,
	})
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeParseUnsupportedDialect))
}

//Personal.AI order the ending
