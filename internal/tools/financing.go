// internal/tools/financing.go
package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strings"
)

// validTerms are the financing terms on offer, in years.
var validTerms = map[int]bool{3: true, 4: true, 5: true, 6: true}

// monthlyPayment computes the fixed monthly payment for a loan amount at a
// monthly rate over n months: P = PV * r * (1+r)^n / ((1+r)^n - 1).
func monthlyPayment(amount, monthlyRate float64, months int) float64 {
	factor := math.Pow(1+monthlyRate, float64(months))
	return amount * monthlyRate * factor / (factor - 1)
}

// maxLoanForPayment inverts monthlyPayment: the largest principal a fixed
// monthly payment can amortize over n months.
func maxLoanForPayment(payment, monthlyRate float64, months int) float64 {
	factor := math.Pow(1+monthlyRate, float64(months))
	return payment * (factor - 1) / (monthlyRate * factor)
}

// ==========================================
// CALCULATE FINANCING
// ==========================================

type financingTool struct {
	annualRate float64
}

func NewFinancingTool(annualRate float64) Tool {
	return &financingTool{annualRate: annualRate}
}

func (t *financingTool) Name() string { return "calculate_financing" }

func (t *financingTool) Description() string {
	return "Calcula un plan de financiamiento con tasa fija anual: pago mensual, total a pagar e intereses."
}

func (t *financingTool) Parameters() json.RawMessage {
	return json.RawMessage(`{
		"type": "object",
		"properties": {
			"car_price": {"type": "number", "description": "Precio total del auto en pesos mexicanos"},
			"down_payment": {"type": "number", "description": "Enganche en pesos mexicanos"},
			"years": {"type": "integer", "description": "Plazo en años: 3, 4, 5 o 6", "default": 4}
		},
		"required": ["car_price", "down_payment"]
	}`)
}

func (t *financingTool) Invoke(_ context.Context, args json.RawMessage) (string, error) {
	in := struct {
		CarPrice    float64 `json:"car_price"`
		DownPayment float64 `json:"down_payment"`
		Years       int     `json:"years"`
	}{Years: 4}
	if err := json.Unmarshal(args, &in); err != nil {
		return "", fmt.Errorf("parse arguments: %w", err)
	}

	if in.CarPrice <= 0 {
		return "❌ El precio del auto debe ser mayor a $0. ¿Puedes verificar?", nil
	}
	if in.DownPayment < 0 || in.DownPayment >= in.CarPrice {
		return "❌ El enganche debe ser entre $0 y menor al precio del auto. ¿Puedes verificar?", nil
	}
	if !validTerms[in.Years] {
		return fmt.Sprintf("❌ Plazo no válido: %d. Los plazos disponibles son: 3, 4, 5 o 6 años. ¿Cuál prefieres?", in.Years), nil
	}

	amount := in.CarPrice - in.DownPayment
	monthlyRate := t.annualRate / 12
	months := in.Years * 12

	payment := monthlyPayment(amount, monthlyRate, months)
	total := payment * float64(months)
	interests := total - amount

	var b strings.Builder
	b.WriteString("💰 *Plan de Financiamiento*\n\n")
	fmt.Fprintf(&b, "🚗 Precio del auto: $%s\n", pesosFloat(in.CarPrice))
	fmt.Fprintf(&b, "💵 Enganche: $%s (%.1f%%)\n", pesosFloat(in.DownPayment), in.DownPayment/in.CarPrice*100)
	fmt.Fprintf(&b, "📊 Monto a financiar: $%s\n\n", pesosFloat(amount))
	fmt.Fprintf(&b, "⏱️ *Plazo: %d años*\n", in.Years)
	fmt.Fprintf(&b, "📅 Pago mensual: $%s\n", pesosFloat(payment))
	fmt.Fprintf(&b, "💳 Total a pagar: $%s\n", pesosFloat(total))
	fmt.Fprintf(&b, "📈 Intereses: $%s\n\n", pesosFloat(interests))
	fmt.Fprintf(&b, "✅ Tasa de interés: %.0f%% anual\n", t.annualRate*100)
	b.WriteString("✅ Sin penalización por pago anticipado\n")
	b.WriteString("✅ Proceso 100% digital\n")

	if in.Years != 4 {
		altPayment := monthlyPayment(amount, monthlyRate, 4*12)
		fmt.Fprintf(&b, "\n💡 En 4 años serían $%s/mes\n", pesosFloat(altPayment))
	}
	b.WriteString("\n¿Te funciona este plan? ¿Quieres ver otras opciones de enganche? 😊")
	return b.String(), nil
}

// ==========================================
// COMPARE FINANCING TERMS
// ==========================================

type financingOptionsTool struct {
	annualRate float64
}

func NewFinancingOptionsTool(annualRate float64) Tool {
	return &financingOptionsTool{annualRate: annualRate}
}

func (t *financingOptionsTool) Name() string { return "calculate_multiple_options" }

func (t *financingOptionsTool) Description() string {
	return "Compara el pago mensual de todos los plazos disponibles para un precio y porcentaje de enganche dados."
}

func (t *financingOptionsTool) Parameters() json.RawMessage {
	return json.RawMessage(`{
		"type": "object",
		"properties": {
			"car_price": {"type": "number", "description": "Precio del auto en pesos mexicanos"},
			"down_payment_percentage": {"type": "number", "description": "Porcentaje de enganche (default 20)", "default": 20}
		},
		"required": ["car_price"]
	}`)
}

func (t *financingOptionsTool) Invoke(_ context.Context, args json.RawMessage) (string, error) {
	in := struct {
		CarPrice              float64 `json:"car_price"`
		DownPaymentPercentage float64 `json:"down_payment_percentage"`
	}{DownPaymentPercentage: 20}
	if err := json.Unmarshal(args, &in); err != nil {
		return "", fmt.Errorf("parse arguments: %w", err)
	}

	if in.CarPrice <= 0 {
		return "❌ El precio del auto debe ser mayor a $0", nil
	}
	if in.DownPaymentPercentage < 0 || in.DownPaymentPercentage > 100 {
		return "❌ El porcentaje de enganche debe estar entre 0% y 100%", nil
	}

	downPayment := in.CarPrice * in.DownPaymentPercentage / 100
	amount := in.CarPrice - downPayment
	monthlyRate := t.annualRate / 12

	var b strings.Builder
	b.WriteString("💰 *Opciones de Financiamiento*\n\n")
	fmt.Fprintf(&b, "🚗 Precio: $%s\n", pesosFloat(in.CarPrice))
	fmt.Fprintf(&b, "💵 Enganche (%.0f%%): $%s\n", in.DownPaymentPercentage, pesosFloat(downPayment))
	fmt.Fprintf(&b, "📊 A financiar: $%s\n\n*Opciones de pago:*\n", pesosFloat(amount))

	for _, years := range []int{3, 4, 5, 6} {
		months := years * 12
		payment := monthlyPayment(amount, monthlyRate, months)
		fmt.Fprintf(&b, "📅 *%d años:* $%s/mes (Total: $%s)\n",
			years, pesosFloat(payment), pesosFloat(payment*float64(months)))
	}

	fmt.Fprintf(&b, "\n✅ Tasa: %.0f%% anual fija\n", t.annualRate*100)
	b.WriteString("✅ Sin comisiones ocultas\n")
	b.WriteString("✅ Aprobación en 24 horas\n\n¿Cuál plazo te conviene más? 😊")
	return b.String(), nil
}

// ==========================================
// BUDGET FROM MONTHLY PAYMENT
// ==========================================

type budgetByPaymentTool struct {
	annualRate float64
}

func NewBudgetByPaymentTool(annualRate float64) Tool {
	return &budgetByPaymentTool{annualRate: annualRate}
}

func (t *budgetByPaymentTool) Name() string { return "calculate_budget_by_monthly_payment" }

func (t *budgetByPaymentTool) Description() string {
	return "Calcula el precio máximo de auto alcanzable con un pago mensual deseado, plazo y porcentaje de enganche."
}

func (t *budgetByPaymentTool) Parameters() json.RawMessage {
	return json.RawMessage(`{
		"type": "object",
		"properties": {
			"monthly_payment_desired": {"type": "number", "description": "Pago mensual disponible en pesos mexicanos"},
			"years": {"type": "integer", "description": "Plazo en años: 3, 4, 5 o 6", "default": 4},
			"down_payment_percentage": {"type": "number", "description": "Porcentaje de enganche (default 20)", "default": 20}
		},
		"required": ["monthly_payment_desired"]
	}`)
}

func (t *budgetByPaymentTool) Invoke(_ context.Context, args json.RawMessage) (string, error) {
	in := struct {
		MonthlyPaymentDesired float64 `json:"monthly_payment_desired"`
		Years                 int     `json:"years"`
		DownPaymentPercentage float64 `json:"down_payment_percentage"`
	}{Years: 4, DownPaymentPercentage: 20}
	if err := json.Unmarshal(args, &in); err != nil {
		return "", fmt.Errorf("parse arguments: %w", err)
	}

	if in.MonthlyPaymentDesired <= 0 {
		return "❌ El pago mensual debe ser mayor a $0", nil
	}
	if !validTerms[in.Years] {
		return fmt.Sprintf("❌ Plazo no válido: %d. Los plazos disponibles son: 3, 4, 5 o 6 años", in.Years), nil
	}

	monthlyRate := t.annualRate / 12
	months := in.Years * 12

	maxLoan := maxLoanForPayment(in.MonthlyPaymentDesired, monthlyRate, months)
	maxPrice := maxLoan / (1 - in.DownPaymentPercentage/100)
	downPayment := maxPrice * in.DownPaymentPercentage / 100

	var b strings.Builder
	b.WriteString("🎯 *Análisis de Presupuesto*\n\n")
	fmt.Fprintf(&b, "💳 Pago mensual disponible: $%s\n", pesosFloat(in.MonthlyPaymentDesired))
	fmt.Fprintf(&b, "⏱️ Plazo: %d años\n", in.Years)
	fmt.Fprintf(&b, "💵 Enganche (%.0f%%): $%s\n\n", in.DownPaymentPercentage, pesosFloat(downPayment))
	fmt.Fprintf(&b, "🚗 *Precio máximo de auto: $%s*\n\n", pesosFloat(maxPrice))
	b.WriteString("📊 Desglose:\n")
	fmt.Fprintf(&b, "• Monto a financiar: $%s\n", pesosFloat(maxLoan))
	fmt.Fprintf(&b, "• Enganche requerido: $%s\n", pesosFloat(downPayment))
	fmt.Fprintf(&b, "• Total del auto: $%s\n\n", pesosFloat(maxPrice))
	b.WriteString("¿Quieres ver autos disponibles en este rango? 🚗")
	return b.String(), nil
}
