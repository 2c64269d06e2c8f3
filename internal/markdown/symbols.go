package markdown

import "regexp"

// symbols maps LaTeX command names (without the backslash) to the Unicode
// character they stand for. Read-only after package init.
var symbols = map[string]string{
	// Greek, lowercase
	"alpha":   "α",
	"beta":    "β",
	"gamma":   "γ",
	"delta":   "δ",
	"epsilon": "ε",
	"zeta":    "ζ",
	"eta":     "η",
	"theta":   "θ",
	"iota":    "ι",
	"kappa":   "κ",
	"lambda":  "λ",
	"mu":      "μ",
	"nu":      "ν",
	"xi":      "ξ",
	"pi":      "π",
	"rho":     "ρ",
	"sigma":   "σ",
	"tau":     "τ",
	"upsilon": "υ",
	"phi":     "φ",
	"chi":     "χ",
	"psi":     "ψ",
	"omega":   "ω",

	// Greek, uppercase
	"Gamma":  "Γ",
	"Delta":  "Δ",
	"Theta":  "Θ",
	"Lambda": "Λ",
	"Pi":     "Π",
	"Sigma":  "Σ",
	"Phi":    "Φ",
	"Omega":  "Ω",

	// Big operators and calculus
	"infty":   "∞",
	"sum":     "∑",
	"prod":    "∏",
	"int":     "∫",
	"partial": "∂",
	"nabla":   "∇",

	// Binary operators
	"times": "×",
	"div":   "÷",
	"pm":    "±",
	"mp":    "∓",
	"cdot":  "·",

	// Relations
	"le":     "≤",
	"leq":    "≤",
	"ge":     "≥",
	"geq":    "≥",
	"neq":    "≠",
	"approx": "≈",
	"equiv":  "≡",

	// Arrows
	"rightarrow":     "→",
	"leftarrow":      "←",
	"Rightarrow":     "⇒",
	"Leftarrow":      "⇐",
	"leftrightarrow": "↔",
	"Leftrightarrow": "⇔",

	// Ellipses
	"cdots": "⋯",
	"ldots": "…",
	"vdots": "⋮",
	"ddots": "⋱",
}

// commandRe matches a backslash followed by its full letter run, so a short
// name never matches the prefix of a longer one (\le inside \leftarrow).
var commandRe = regexp.MustCompile(`\\([A-Za-z]+)`)

// replaceSymbols substitutes every known command with its Unicode symbol.
// Unknown commands are left intact for the later rules.
func replaceSymbols(s string) string {
	return commandRe.ReplaceAllStringFunc(s, func(m string) string {
		if sym, ok := symbols[m[1:]]; ok {
			return sym
		}
		return m
	})
}
