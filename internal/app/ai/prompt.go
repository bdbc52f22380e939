package ai

import (
	"fmt"
	"strings"
)

var kindTitles = map[string]string{
	"animator":     "аниматор",
	"venue":        "площадка для праздников",
	"quest":        "квест",
	"photographer": "фотограф",
}

const describeSystemPrompt = "Ты помогаешь исполнителям детских праздников оформлять карточки услуг в каталоге. " +
	"Пиши по-русски, дружелюбно и конкретно, 3-5 предложений, без выдуманных цен и контактов."

// DescribeServicePrompt диалог для генерации описания услуги в каталоге
func DescribeServicePrompt(name, kind, notes string) []Message {
	title, ok := kindTitles[kind]
	if !ok {
		title = "исполнитель"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Исполнитель: %s.\n", title)
	fmt.Fprintf(&b, "Название услуги: %s.\n", strings.TrimSpace(name))
	if notes = strings.TrimSpace(notes); notes != "" {
		fmt.Fprintf(&b, "Заметки исполнителя: %s\n", notes)
	}
	b.WriteString("Составь описание услуги для карточки в каталоге.")

	return []Message{
		{Role: "system", Content: describeSystemPrompt},
		{Role: "user", Content: b.String()},
	}
}
