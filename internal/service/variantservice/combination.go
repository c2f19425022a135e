package variantservice

import (
	"fmt"
	"strings"
	"time"

	"gocatalog/internal/domain"
)

// GenerateCombinations computa o produto cartesiano dos valores dos atributos,
// na ordem informada, e produz uma GeneratedVariant por combinação.
//
// A ordem importa duas vezes: ela determina a ordem de concatenação dos
// fragmentos no SKU e a ordem de emissão das variantes (o atributo mais à
// esquerda varia mais devagar — a primeira dimensão fica no laço externo).
//
// Lista de atributos vazia produz zero variantes (produto simples, sem
// variação — resultado válido, não erro). Um atributo sem valores é um fator
// de cardinalidade zero: o produto cartesiano inteiro colapsa para zero
// variantes. Essa é a aritmética do produto cartesiano com conjunto vazio e
// é preservada de propósito; a validação de contrato fica no chamador.
//
// Função pura: nenhum acesso a storage, nenhum efeito colateral.
func GenerateCombinations(productSlug string, attributes []domain.AttributeSelection, defaultPrice float64, defaultQuantity int) []domain.GeneratedVariant {
	variants := []domain.GeneratedVariant{}
	if len(attributes) == 0 {
		return variants
	}

	total := 1
	for _, attr := range attributes {
		total *= len(attr.Values)
	}
	if total == 0 {
		return variants
	}

	// Odômetro de índices: a posição mais à direita incrementa primeiro,
	// então o atributo mais à esquerda varia mais devagar.
	indices := make([]int, len(attributes))

	for emitted := 0; emitted < total; emitted++ {
		valueIDs := make([]string, len(attributes))
		labels := make([]string, len(attributes))
		details := make([]domain.AttributeDetail, len(attributes))

		for pos, attr := range attributes {
			value := attr.Values[indices[pos]]
			valueIDs[pos] = value.ID
			labels[pos] = value.Value
			details[pos] = domain.AttributeDetail{
				AttributeID:   attr.AttributeID,
				AttributeName: attr.AttributeName,
				Value:         value.Value,
			}
		}

		variants = append(variants, domain.GeneratedVariant{
			SKU:               SKU(productSlug, labels),
			Price:             defaultPrice,
			QuantityInStock:   defaultQuantity,
			AttributeValueIDs: valueIDs,
			AttributeDetails:  details,
		})

		// Avança o odômetro (da direita para a esquerda)
		for pos := len(indices) - 1; pos >= 0; pos-- {
			indices[pos]++
			if indices[pos] < len(attributes[pos].Values) {
				break
			}
			indices[pos] = 0
		}
	}

	return variants
}

// SKU deriva o código da variante a partir do slug do produto e dos rótulos
// dos valores de atributo, na ordem informada:
//
//  1. base: slug sem hífens, maiúsculo, truncado em 4 caracteres;
//  2. fragmentos: cada rótulo sem espaços nas pontas, maiúsculo, truncado em 3;
//  3. resultado: base + "-" + fragmentos unidos por "-".
//
// Com zero rótulos o resultado é "BASE-" (hífen final, sufixo vazio). O hífen
// final é preservado por compatibilidade com SKUs já emitidos.
//
// A truncagem NÃO garante unicidade global (rótulos longos podem colidir nos
// 3 primeiros caracteres); o desempate é responsabilidade do chamador via
// UniqueSKU quando o SKU base já existir no storage.
func SKU(productSlug string, labels []string) string {
	base := truncate(strings.ToUpper(strings.ReplaceAll(productSlug, "-", "")), 4)

	fragments := make([]string, len(labels))
	for i, label := range labels {
		fragments[i] = truncate(strings.ToUpper(strings.TrimSpace(label)), 3)
	}

	return base + "-" + strings.Join(fragments, "-")
}

// UniqueSKU acrescenta ao SKU base os 6 dígitos baixos do timestamp atual em
// milissegundos, como desempate de última instância. Usado apenas quando o
// chamador já constatou que o SKU base existe no storage.
func UniqueSKU(productSlug string, labels []string) string {
	suffix := time.Now().UnixMilli() % 1_000_000
	return fmt.Sprintf("%s-%06d", SKU(productSlug, labels), suffix)
}

// truncate devolve os primeiros n caracteres (runas) de s.
func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
