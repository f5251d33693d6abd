package telegram

import (
	"fmt"

	"github.com/go-telegram/bot/models"

	"github.com/zapdash/tap-rewards/internal/tasks"
)

// HomeKeyboard returns the home tab keyboard: the tap button plus navigation.
func HomeKeyboard(checkedIn bool) *models.InlineKeyboardMarkup {
	checkinLabel := "📅 Daily check-in"
	if checkedIn {
		checkinLabel = "📅 Checked in ✅"
	}

	return &models.InlineKeyboardMarkup{
		InlineKeyboard: [][]models.InlineKeyboardButton{
			{
				{Text: "👆 Tap!", CallbackData: "tap"},
			},
			{
				{Text: checkinLabel, CallbackData: "checkin"},
			},
			{
				{Text: "💰 Earn", CallbackData: "tasks"},
				{Text: "👥 Friends", CallbackData: "friends"},
			},
		},
	}
}

// TasksKeyboard returns one row per catalog task: a link to the task target
// and a complete button.
func TasksKeyboard(catalog []tasks.Task) *models.InlineKeyboardMarkup {
	var rows [][]models.InlineKeyboardButton

	for i, task := range catalog {
		rows = append(rows, []models.InlineKeyboardButton{
			{Text: task.Name, URL: task.URL},
			{Text: "✅ Complete", CallbackData: fmt.Sprintf("task:%d", i)},
		})
	}

	rows = append(rows, []models.InlineKeyboardButton{
		{Text: "⬅️ Back", CallbackData: "back"},
	})

	return &models.InlineKeyboardMarkup{InlineKeyboard: rows}
}

// FriendsKeyboard returns the referral tab keyboard.
func FriendsKeyboard() *models.InlineKeyboardMarkup {
	return &models.InlineKeyboardMarkup{
		InlineKeyboard: [][]models.InlineKeyboardButton{
			{
				{Text: "🔗 Copy referral link", CallbackData: "copy"},
			},
			{
				{Text: "⬅️ Back", CallbackData: "back"},
			},
		},
	}
}

// BackKeyboard returns a simple back button
func BackKeyboard() *models.InlineKeyboardMarkup {
	return &models.InlineKeyboardMarkup{
		InlineKeyboard: [][]models.InlineKeyboardButton{
			{
				{Text: "⬅️ Back", CallbackData: "back"},
			},
		},
	}
}
