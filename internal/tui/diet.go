package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/familyfit/familyfit/pkg/client"
	"github.com/familyfit/familyfit/pkg/domain"
)

type dietModel struct {
	client     *client.Client
	userID     int64
	mealIdx    int
	foods      string
	focused    bool
	submitting bool
	loading    bool
	meals      *domain.TodayMeals
	result     *domain.MealResult
	err        error
	now        func() time.Time
}

type mealsLoadedMsg struct {
	userID int64
	meals  *domain.TodayMeals
	err    error
}

type mealAddedMsg struct {
	userID int64
	result *domain.MealResult
	err    error
}

func newDietModel(c *client.Client, userID int64) dietModel {
	return dietModel{client: c, userID: userID, loading: true, now: time.Now}
}

func (m dietModel) Init() tea.Cmd {
	return m.load()
}

func (m dietModel) load() tea.Cmd {
	c, uid := m.client, m.userID
	return func() tea.Msg {
		meals, err := c.TodayMeals(context.Background(), uid)
		return mealsLoadedMsg{userID: uid, meals: meals, err: err}
	}
}

func (m dietModel) mealType() string {
	return domain.MealTypes[m.mealIdx]
}

func (m dietModel) Update(msg tea.Msg) (dietModel, tea.Cmd) {
	switch msg := msg.(type) {
	case mealsLoadedMsg:
		if msg.userID != m.userID {
			return m, nil
		}
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, expiredCmd(msg.err)
		}
		m.meals = msg.meals
		return m, nil

	case mealAddedMsg:
		if msg.userID != m.userID {
			return m, nil
		}
		m.submitting = false
		m.err = msg.err
		if msg.err != nil {
			return m, expiredCmd(msg.err)
		}
		m.result = msg.result
		m.foods = ""
		m.focused = false
		return m, m.load()

	case tea.KeyMsg:
		if m.submitting {
			return m, nil
		}
		if m.focused {
			switch msg.String() {
			case "esc":
				m.focused = false
			case "enter":
				return m.submit()
			default:
				m.foods = editRune(m.foods, msg.String())
			}
			return m, nil
		}
		n := len(domain.MealTypes)
		switch msg.String() {
		case "h", "left":
			m.mealIdx = (m.mealIdx - 1 + n) % n
		case "l", "right":
			m.mealIdx = (m.mealIdx + 1) % n
		case "enter", "i":
			m.focused = true
		case "r":
			m.loading = true
			return m, m.load()
		}
	}
	return m, nil
}

func (m dietModel) submit() (dietModel, tea.Cmd) {
	items := parseFoodItems(m.foods)
	if len(items) == 0 {
		m.err = fmt.Errorf("list at least one food, e.g. rice 1 bowl, fish 100g")
		return m, nil
	}
	m.submitting = true
	m.err = nil
	req := domain.AddMealRequest{
		UserID:    m.userID,
		MealType:  m.mealType(),
		FoodItems: items,
		Date:      today(m.now()),
	}
	c, uid := m.client, m.userID
	return m, func() tea.Msg {
		res, err := c.AddMeal(context.Background(), req)
		return mealAddedMsg{userID: uid, result: res, err: err}
	}
}

func (m dietModel) View() string {
	var b strings.Builder

	var picker []string
	for i, t := range domain.MealTypes {
		if i == m.mealIdx {
			picker = append(picker, MealTypeStyle(t).Underline(true).Render(t))
		} else {
			picker = append(picker, dimStyle.Render(t))
		}
	}
	b.WriteString("\n   " + strings.Join(picker, "  ") + "\n")
	b.WriteString(" " + renderField("foods", m.foods, "rice 1 bowl, fish 100g", m.focused, false) + "\n\n")

	switch {
	case m.submitting:
		b.WriteString(" " + dimStyle.Render("analyzing meal...") + "\n")
	case m.err != nil:
		b.WriteString(" " + errorStyle.Render("error: "+client.Message(m.err)) + "\n")
	case m.result != nil:
		r := m.result
		fmt.Fprintf(&b, " %s %s %s\n", MealTypeStyle(r.MealType).Render(r.MealType),
			ScoreStyle(r.HealthScore).Render(fmt.Sprintf("score %d", r.HealthScore)),
			metaStyle.Render(fmt.Sprintf("%d kcal", r.TotalCalories)))
		if r.Analysis != "" {
			b.WriteString("   " + noticeStyle.Render(truncStr(r.Analysis, 200)) + "\n")
		}
	}

	b.WriteString("\n")
	switch {
	case m.loading && m.meals == nil:
		b.WriteString(" " + dimStyle.Render("loading today's meals..."))
	case m.meals != nil:
		d := m.meals
		fmt.Fprintf(&b, " %s %s\n", sectionHeaderStyle.Render("today"),
			metaStyle.Render(fmt.Sprintf("%d meals . %d kcal . avg score %d", d.MealCount, d.TotalCalories, d.AvgHealthScore)))
		if len(d.Meals) == 0 {
			b.WriteString("   " + dimStyle.Render("nothing recorded yet") + "\n")
		}
		for _, meal := range d.Meals {
			fmt.Fprintf(&b, "   %s %s %s\n",
				MealTypeStyle(meal.MealType).Render(fmt.Sprintf("%-9s", meal.MealType)),
				ScoreStyle(meal.HealthScore).Render(fmt.Sprintf("%3d", meal.HealthScore)),
				normalStyle.Render(truncStr(formatFoodItems(meal.FoodItems), 60)))
		}
	}
	return b.String()
}
