package variantservice_test

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"

	"gocatalog/internal/domain"
	"gocatalog/internal/service/variantservice"
)

// selection é um helper para montar uma AttributeSelection de teste.
func selection(name string, values ...string) domain.AttributeSelection {
	sel := domain.AttributeSelection{
		AttributeID:   name + "-id",
		AttributeName: name,
	}
	for _, v := range values {
		sel.Values = append(sel.Values, domain.AttributeValue{
			ID:          name + "-" + v,
			AttributeID: sel.AttributeID,
			Value:       v,
		})
	}
	return sel
}

// TestGenerateCombinations_ProdutoCartesianoCompleto testa que 2 tamanhos x 3
// cores produzem exatamente 6 variantes, todas com SKU distinto.
func TestGenerateCombinations_ProdutoCartesianoCompleto(t *testing.T) {
	attrs := []domain.AttributeSelection{
		selection("Tamanho", "Small", "Large"),
		selection("Cor", "Red", "Green", "Blue"),
	}

	variants := variantservice.GenerateCombinations("summer-tee", attrs, 49.90, 10)

	assert.Len(t, variants, 6)

	seen := map[string]bool{}
	for _, v := range variants {
		assert.False(t, seen[v.SKU], "SKU duplicado na geração: %s", v.SKU)
		seen[v.SKU] = true
		assert.Len(t, v.AttributeValueIDs, 2)
		assert.Equal(t, 49.90, v.Price)
		assert.Equal(t, 10, v.QuantityInStock)
	}
}

// TestGenerateCombinations_OrdemDeEmissao testa que o atributo mais à esquerda
// varia mais devagar: todas as cores do primeiro tamanho vêm antes do segundo.
func TestGenerateCombinations_OrdemDeEmissao(t *testing.T) {
	attrs := []domain.AttributeSelection{
		selection("Tamanho", "Small", "Large"),
		selection("Cor", "Red", "Green", "Blue"),
	}

	variants := variantservice.GenerateCombinations("summer-tee", attrs, 0, 0)

	expected := []string{
		"SUMM-SMA-RED",
		"SUMM-SMA-GRE",
		"SUMM-SMA-BLU",
		"SUMM-LAR-RED",
		"SUMM-LAR-GRE",
		"SUMM-LAR-BLU",
	}
	skus := make([]string, len(variants))
	for i, v := range variants {
		skus[i] = v.SKU
	}
	assert.Equal(t, expected, skus)
}

// TestGenerateCombinations_OrdemDosAtributosImporta testa que inverter a ordem
// dos atributos muda os SKUs (a concatenação segue a ordem informada).
func TestGenerateCombinations_OrdemDosAtributosImporta(t *testing.T) {
	direct := variantservice.GenerateCombinations("summer-tee", []domain.AttributeSelection{
		selection("Tamanho", "Large"),
		selection("Cor", "Red"),
	}, 0, 0)
	inverted := variantservice.GenerateCombinations("summer-tee", []domain.AttributeSelection{
		selection("Cor", "Red"),
		selection("Tamanho", "Large"),
	}, 0, 0)

	assert.Equal(t, "SUMM-LAR-RED", direct[0].SKU)
	assert.Equal(t, "SUMM-RED-LAR", inverted[0].SKU)
}

// TestGenerateCombinations_SemAtributos testa que lista vazia produz zero
// variantes (slice vazio, não nil — produto simples é um resultado válido).
func TestGenerateCombinations_SemAtributos(t *testing.T) {
	variants := variantservice.GenerateCombinations("summer-tee", nil, 0, 0)

	assert.NotNil(t, variants)
	assert.Empty(t, variants)
}

// TestGenerateCombinations_AtributoSemValores testa a aritmética do produto
// cartesiano: um fator de cardinalidade zero colapsa o produto inteiro.
func TestGenerateCombinations_AtributoSemValores(t *testing.T) {
	attrs := []domain.AttributeSelection{
		selection("Tamanho", "Small", "Large"),
		selection("Cor"), // sem valores
	}

	variants := variantservice.GenerateCombinations("summer-tee", attrs, 0, 0)

	assert.Empty(t, variants)
}

// TestSKU_Derivacao testa a regra de derivação: base de 4 caracteres do slug
// sem hífens + fragmentos de 3 caracteres dos rótulos, tudo maiúsculo.
func TestSKU_Derivacao(t *testing.T) {
	sku := variantservice.SKU("summer-tee", []string{"Large", "Red"})
	assert.Equal(t, "SUMM-LAR-RED", sku)
}

// TestSKU_SemRotulos testa o caso de zero rótulos: o hífen final é preservado.
func TestSKU_SemRotulos(t *testing.T) {
	sku := variantservice.SKU("summer-tee", nil)
	assert.Equal(t, "SUMM-", sku)
}

// TestSKU_RotulosCurtosENormalizacao testa rótulos menores que o fragmento e a
// normalização (trim de espaços, maiúsculas).
func TestSKU_RotulosCurtosENormalizacao(t *testing.T) {
	sku := variantservice.SKU("hat", []string{" xl ", "p"})
	assert.Equal(t, "HAT-XL-P", sku)
}

// TestSKU_SlugComVariosHifens testa que todos os hifens do slug são removidos
// antes da truncagem da base.
func TestSKU_SlugComVariosHifens(t *testing.T) {
	sku := variantservice.SKU("a-b-c-d-e", []string{"Red"})
	assert.Equal(t, "ABCD-RED", sku)
}

// TestUniqueSKU_Formato testa que o desempate acrescenta exatamente 6 dígitos
// ao SKU base.
func TestUniqueSKU_Formato(t *testing.T) {
	sku := variantservice.UniqueSKU("summer-tee", []string{"Large", "Red"})

	assert.Regexp(t, regexp.MustCompile(`^SUMM-LAR-RED-\d{6}$`), sku)
}
