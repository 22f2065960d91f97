package app

import (
	"fmt"
	"log"
	"sort"

	"colmeia-quiz-service/internal/domain"
)

// Kinds of dashboard entities a rule can reference but fail to find.
const (
	MissPilar = "pilar"
	MissBadge = "badge"
	MissGoal  = "goal"
)

// BadgeRule advances one badge, and completes one goal, from the answer to one question.
type BadgeRule struct {
	Question string
	BadgeID  string
	GoalID   string
	// Levels maps an answer text to the badge level it earns; unlisted answers earn 0.
	Levels map[string]int
}

// RuleEngine applies scored submissions to the dashboard state.
type RuleEngine struct {
	rules map[string]BadgeRule

	// OnMiss is called whenever a referenced pilar, badge or goal is absent from the state.
	OnMiss func(kind, id string)
}

// NewRuleEngine indexes rules by trimmed question text. Answer keys are trimmed too.
func NewRuleEngine(rules []BadgeRule) *RuleEngine {
	indexed := make(map[string]BadgeRule, len(rules))
	for _, r := range rules {
		levels := make(map[string]int, len(r.Levels))
		for answer, level := range r.Levels {
			levels[normalize(answer)] = level
		}
		r.Question = normalize(r.Question)
		r.Levels = levels
		indexed[r.Question] = r
	}
	return &RuleEngine{
		rules: indexed,
		OnMiss: func(kind, id string) {
			log.Printf("WARN: [RuleEngine] %s %q referenced by a rule is not present in the dashboard", kind, id)
		},
	}
}

// Apply returns a copy of state updated with the result and the badge/goal rules.
func (e *RuleEngine) Apply(result domain.FinalResult, answers []domain.UserAnswer, state domain.DashboardState) domain.DashboardState {
	next := state.Clone()

	next.GeneralScore = result.ScorePercentage
	next.RecommendedDecision = string(result.RecommendedDecision)
	for _, cr := range result.CategoryResults {
		pilar := findPilar(next.Pilars, cr.Category.PilarID())
		if pilar == nil {
			e.miss(MissPilar, cr.Category.PilarID())
			continue
		}
		pilar.Progress = cr.Percentage
	}

	for _, answer := range answers {
		rule, ok := e.rules[normalize(answer.QuestionText)]
		if !ok {
			continue
		}
		level := rule.Levels[normalize(answer.Answer)]

		// Without its badge the rule is skipped, goal included.
		badge := findBadge(next.Badges, rule.BadgeID)
		if badge == nil {
			e.miss(MissBadge, rule.BadgeID)
			continue
		}
		if level > badge.CurrentLevel {
			badge.CurrentLevel = level
		}
		if badge.CurrentLevel <= 0 {
			continue
		}
		if goal := findGoal(next.Pilars, rule.GoalID); goal != nil {
			goal.Completed = true
		} else {
			e.miss(MissGoal, rule.GoalID)
		}
	}
	return next
}

// ValidateAgainst lists rule questions and answers that the bank cannot produce.
func (e *RuleEngine) ValidateAgainst(bank *QuestionBank) []string {
	var problems []string
	for key, rule := range e.rules {
		question, ok := bank.FindQuestion(key)
		if !ok {
			problems = append(problems, fmt.Sprintf("rule question %q not in question bank", key))
			continue
		}
		for answer := range rule.Levels {
			if _, ok := weightFor(question, answer); !ok {
				problems = append(problems, fmt.Sprintf("rule answer %q not an option of %q", answer, key))
			}
		}
	}
	sort.Strings(problems)
	return problems
}

func (e *RuleEngine) miss(kind, id string) {
	if e.OnMiss != nil {
		e.OnMiss(kind, id)
	}
}

func findPilar(pilars []domain.Pilar, id string) *domain.Pilar {
	for i := range pilars {
		if pilars[i].ID == id {
			return &pilars[i]
		}
	}
	return nil
}

func findBadge(badges []domain.Badge, id string) *domain.Badge {
	for i := range badges {
		if badges[i].ID == id {
			return &badges[i]
		}
	}
	return nil
}

// findGoal searches pillars in order; the first pillar holding the id wins.
func findGoal(pilars []domain.Pilar, id string) *domain.Goal {
	for i := range pilars {
		for j := range pilars[i].Goals {
			if pilars[i].Goals[j].ID == id {
				return &pilars[i].Goals[j]
			}
		}
	}
	return nil
}

// DefaultRules is the reference badge/goal rule table.
func DefaultRules() []BadgeRule {
	return []BadgeRule{
		{
			Question: "Já atrasou pagamento de contas nos últimos 12 meses?",
			BadgeID:  "compromisso", GoalID: "obj_sem_atraso",
			Levels: map[string]int{"Nunca": 2, "1-2 vezes": 1, "Mais de 2 vezes": 0},
		},
		{
			Question: "Como comprova a renda/faturamento do seu negócio?",
			BadgeID:  "organizacao_fiscal", GoalID: "obj_comprovacao_renda",
			Levels: map[string]int{"Documentos formais": 1, "Recibos informais": 1, "Não comprova": 0},
		},
		{
			Question: "Mantém reservas financeiras?",
			BadgeID:  "preparacao", GoalID: "obj_reservas",
			Levels: map[string]int{"Sim": 1, "Parcialmente": 0, "Não": 0},
		},
		{
			Question: "Há quantos anos mora no endereço atual?",
			BadgeID:  "estabilidade", GoalID: "obj_moradia",
			Levels: map[string]int{"Mais de 10 anos": 2, "3-10 anos": 1, "Menos de 3 anos": 0},
		},
		{
			Question: "Compra de fornecedores locais regularmente?",
			BadgeID:  "planejamento", GoalID: "obj_fornecedores",
			Levels: map[string]int{"Sempre": 1, "Frequentemente": 0, "Raramente": 0},
		},
		{
			Question: "Mantém separação das finanças pessoais e do negócio?",
			BadgeID:  "gestao_inteligente", GoalID: "obj_separar_financas",
			Levels: map[string]int{"Sim": 1, "Parcialmente": 0, "Não": 0},
		},
		{
			Question: "Participa de associação de bairro?",
			BadgeID:  "comprometimento_comunidade", GoalID: "obj_associacao",
			Levels: map[string]int{"Sim": 1, "Às vezes": 0, "Não": 0},
		},
		{
			Question: "Já foi recomendado por outro membro da comunidade?",
			BadgeID:  "reconhecimento", GoalID: "obj_recomendacao",
			Levels: map[string]int{"Sim": 1, "Às vezes": 0, "Não": 0},
		},
		{
			Question: "Participa de projetos sociais/comunitários?",
			BadgeID:  "acoes_sociais", GoalID: "obj_projetos",
			Levels: map[string]int{"Sim, ativamente": 1, "Eventualmente": 0, "Não": 0},
		},
	}
}
