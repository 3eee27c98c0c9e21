package importer

import (
	"strings"
	"testing"

	"github.com/juanfelareal/tranki/internal/model"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Sample OFX statement for testing.
const testOFX = `OFXHEADER:100
DATA:OFXSGML
VERSION:102
SECURITY:NONE
ENCODING:USASCII
CHARSET:1252
COMPRESSION:NONE
OLDFILEUID:NONE
NEWFILEUID:NONE

<OFX>
<SIGNONMSGSRSV1>
<SONRS>
<STATUS>
<CODE>0
<SEVERITY>INFO
</STATUS>
<DTSERVER>20260815120000[0:GMT]
<LANGUAGE>SPA
</SONRS>
</SIGNONMSGSRSV1>
<BANKMSGSRSV1>
<STMTTRNRS>
<TRNUID>1
<STATUS>
<CODE>0
<SEVERITY>INFO
</STATUS>
<STMTRS>
<CURDEF>COP
<BANKACCTFROM>
<BANKID>123456789
<ACCTID>1234567890
<ACCTTYPE>CHECKING
</BANKACCTFROM>
<BANKTRANLIST>
<DTSTART>20260801120000[0:GMT]
<DTEND>20260831120000[0:GMT]
<STMTTRN>
<TRNTYPE>DEBIT
<DTPOSTED>20260810120000[0:GMT]
<TRNAMT>-35000.00
<FITID>AUG01
<NAME>RAPPI RESTAURANTE
</STMTTRN>
<STMTTRN>
<TRNTYPE>CREDIT
<DTPOSTED>20260815120000[0:GMT]
<TRNAMT>4500000.00
<FITID>AUG02
<NAME>NOMINA AGOSTO
</STMTTRN>
</BANKTRANLIST>
<LEDGERBAL>
<BALAMT>1000000.00
<DTASOF>20260831120000[0:GMT]
</LEDGERBAL>
</STMTRS>
</STMTTRNRS>
</BANKMSGSRSV1>
</OFX>`

func TestParseOFX(t *testing.T) {
	candidates, err := ParseOFX(strings.NewReader(testOFX))
	require.NoError(t, err)
	require.Len(t, candidates, 2)

	assert.Equal(t, "RAPPI RESTAURANTE", candidates[0].Description)
	assert.Equal(t, model.DirectionExpense, candidates[0].Direction)
	assert.True(t, candidates[0].Amount.Equal(decimal.NewFromInt(35000)),
		"expected 35000, got %s", candidates[0].Amount)
	assert.Equal(t, "2026-08-10", candidates[0].Date)

	assert.Equal(t, "NOMINA AGOSTO", candidates[1].Description)
	assert.Equal(t, model.DirectionIncome, candidates[1].Direction)
	assert.True(t, candidates[1].Amount.Equal(decimal.NewFromInt(4500000)))
}

func TestParseOFX_Invalid(t *testing.T) {
	_, err := ParseOFX(strings.NewReader("this is not an ofx file"))
	assert.Error(t, err)
}

func TestPreprocessOFX(t *testing.T) {
	// Leading whitespace and lowercase severity values both break the
	// strict parser; preprocessing fixes them.
	input := "  \n" + strings.Replace(testOFX, "<SEVERITY>INFO", "<SEVERITY>info", 2)
	_, err := ParseOFX(strings.NewReader(input))
	assert.NoError(t, err)
}
