package conversation

import (
	"fmt"
	"strings"
	"time"

	"wildlife-report-hub/backend/internal/analysis"
	"wildlife-report-hub/backend/internal/geo"
	"wildlife-report-hub/backend/internal/messaging"
	"wildlife-report-hub/backend/internal/postback"
	reportdomain "wildlife-report-hub/backend/internal/report/domain"
	reportservice "wildlife-report-hub/backend/internal/report/service"
	sessiondomain "wildlife-report-hub/backend/internal/session/domain"
)

// Postback parameter keys shared between prompt builders and handlers.
const (
	paramAnimal     = "animal"
	paramCategory   = "category"
	paramQuestionID = "qid"
	paramChoiceID   = "cid"
	paramLandmark   = "landmark"
)

func greetingMessage() messaging.Message {
	return messaging.NewText("友だち追加ありがとうございます。\nこのアカウントでは野生動物の目撃情報を受け付けています。")
}

func resetMessage() messaging.Message {
	return messaging.NewText("報告をリセットしました。最初からやり直せます。")
}

func errorMessage() messaging.Message {
	return messaging.NewText("申し訳ありません、処理中にエラーが発生しました。もう一度お試しください。")
}

func startOverMessage() messaging.Message {
	return messaging.NewText("最初からやり直します。")
}

func animalTypePrompt(animals []reportdomain.Animal) messaging.Message {
	items := make([]messaging.QuickReplyItem, 0, len(animals))
	for _, a := range animals {
		data := postback.Build(map[string]string{
			"action":    postback.ActionSelectAnimal,
			paramAnimal: a.Key,
		})
		items = append(items, messaging.PostbackItem(a.Label, data))
	}
	return messaging.NewTextWithQuickReply("どの動物を見かけましたか?", items...)
}

func photoPrompt() messaging.Message {
	return messaging.NewTextWithQuickReply(
		"動物の写真があれば送ってください。なければスキップできます。",
		messaging.CameraItem("カメラで撮影"),
		messaging.CameraRollItem("写真を選ぶ"),
		messaging.PostbackItem("スキップ", postback.Build(map[string]string{
			"action": postback.ActionSkipPhoto,
		})),
	)
}

func imageRejectedPrompt(reason string) messaging.Message {
	text := "写真を確認できませんでした。別の写真を送るか、スキップしてください。"
	if reason != "" {
		text = reason + "\n" + text
	}
	return messaging.NewTextWithQuickReply(text,
		messaging.CameraItem("カメラで撮影"),
		messaging.CameraRollItem("写真を選ぶ"),
		messaging.PostbackItem("スキップ", postback.Build(map[string]string{
			"action": postback.ActionSkipPhoto,
		})),
	)
}

func screeningDisabledMessage() messaging.Message {
	return messaging.NewText("確認がうまくいかないため、以降の写真はそのまま受け付けます。")
}

func imageDescriptionPrompt(description string) messaging.Message {
	return messaging.NewTextWithQuickReply(
		fmt.Sprintf("写真を受け付けました。\n「%s」という内容でよろしいですか?", description),
		messaging.PostbackItem("はい", postback.Build(map[string]string{
			"action": postback.ActionConfirmDesc,
		})),
		messaging.PostbackItem("いいえ", postback.Build(map[string]string{
			"action": postback.ActionRejectDesc,
		})),
	)
}

func photoContinuePrompt() messaging.Message {
	return messaging.NewTextWithQuickReply("写真を追加しますか?",
		messaging.PostbackItem("写真を追加", postback.Build(map[string]string{
			"action": postback.ActionAddPhoto,
		})),
		messaging.PostbackItem("次へ進む", postback.Build(map[string]string{
			"action": postback.ActionSkipPhoto,
		})),
	)
}

func dateTimePrompt(now time.Time) messaging.Message {
	return messaging.NewTextWithQuickReply("いつ見かけましたか?",
		messaging.PostbackItem("たった今", postback.Build(map[string]string{
			"action": postback.ActionDateTimeNow,
		})),
		messaging.DatetimePickerItem("日時を選ぶ",
			postback.Build(map[string]string{"action": postback.ActionSelectDateTime}),
			now.Format("2006-01-02T15:04"),
			now.Format("2006-01-02T15:04"),
		),
	)
}

func locationPrompt() messaging.Message {
	return messaging.NewTextWithQuickReply(
		"どこで見かけましたか?\n位置情報を送信してください。",
		messaging.LocationItem("位置情報を送る"),
	)
}

func geofenceDeniedPrompt(prefix string) messaging.Message {
	return messaging.NewTextWithQuickReply(
		fmt.Sprintf("申し訳ありません、%s以外の目撃情報は受け付けていません。\n%s内の位置情報を送信してください。", prefix, prefix),
		messaging.LocationItem("位置情報を送る"),
	)
}

func landmarkPrompt(landmarks []geo.Landmark) messaging.Message {
	// Quick replies hold at most 13 items; keep room for the skip button.
	const maxItems = 12
	items := make([]messaging.QuickReplyItem, 0, maxItems+1)
	for _, lm := range landmarks {
		if len(items) == maxItems {
			break
		}
		label := lm.Name
		if len([]rune(label)) > 20 {
			label = string([]rune(label)[:20])
		}
		items = append(items, messaging.PostbackItem(label, postback.Build(map[string]string{
			"action":      postback.ActionSelectLandmark,
			paramLandmark: lm.ID,
		})))
	}
	items = append(items, messaging.PostbackItem("近くにない", postback.Build(map[string]string{
		"action": postback.ActionSkipLandmark,
	})))
	return messaging.NewTextWithQuickReply("近くの目印があれば選んでください。", items...)
}

func actionCategoryPrompt() messaging.Message {
	categories := analysis.Categories()
	items := make([]messaging.QuickReplyItem, 0, len(categories))
	for _, c := range categories {
		items = append(items, messaging.PostbackItem(c.Label, postback.Build(map[string]string{
			"action":      postback.ActionSelectAction,
			paramCategory: c.Key,
		})))
	}
	return messaging.NewTextWithQuickReply("動物はどんな様子でしたか?", items...)
}

func questionPrompt(card *sessiondomain.QuestionCard) messaging.Message {
	items := make([]messaging.QuickReplyItem, 0, len(card.Choices))
	for _, choice := range card.Choices {
		items = append(items, messaging.PostbackItem(choice.Label, postback.Build(map[string]string{
			"action":        postback.ActionAnswerQuestion,
			paramQuestionID: card.QuestionID,
			paramChoiceID:   choice.ID,
		})))
	}
	return messaging.NewTextWithQuickReply(card.QuestionText, items...)
}

func actionDetailPrompt(detail string) messaging.Message {
	return messaging.NewTextWithQuickReply(
		fmt.Sprintf("状況を「%s」とまとめました。よろしいですか?", detail),
		messaging.PostbackItem("はい", postback.Build(map[string]string{
			"action": postback.ActionConfirmDetail,
		})),
		messaging.PostbackItem("やり直す", postback.Build(map[string]string{
			"action": postback.ActionRestartDetail,
		})),
	)
}

func draftPrompt(draft *sessiondomain.ReportDraft) messaging.Message {
	var b strings.Builder
	b.WriteString("以下の内容で報告します。よろしいですか?\n\n")
	fmt.Fprintf(&b, "【いつ】%s\n", draft.When)
	fmt.Fprintf(&b, "【どこで】%s\n", draft.Where)
	fmt.Fprintf(&b, "【なにを】%s\n", draft.What)
	fmt.Fprintf(&b, "【状況】%s", draft.Situation)
	return messaging.NewTextWithQuickReply(b.String(),
		messaging.PostbackItem("報告する", postback.Build(map[string]string{
			"action": postback.ActionConfirmReport,
		})),
		messaging.PostbackItem("最初からやり直す", postback.Build(map[string]string{
			"action": postback.ActionStartOver,
		})),
	)
}

func phoneNumberPrompt() messaging.Message {
	return messaging.NewTextWithQuickReply(
		"折り返し連絡のため、電話番号を入力してください。\n(例: 0263-12-3456)\n不要な場合はスキップできます。",
		messaging.PostbackItem("スキップ", postback.Build(map[string]string{
			"action": postback.ActionSkipPhoneNumber,
		})),
	)
}

func invalidPhonePrompt() messaging.Message {
	return messaging.NewTextWithQuickReply(
		"電話番号の形式を確認できませんでした。\n0から始まる10〜11桁の番号を入力してください。",
		messaging.PostbackItem("スキップ", postback.Build(map[string]string{
			"action": postback.ActionSkipPhoneNumber,
		})),
	)
}

func completionMessages(result *reportservice.RegistrationResult) []messaging.Message {
	messages := []messaging.Message{
		messaging.NewText("ご報告ありがとうございました。\n担当者が内容を確認します。"),
	}
	var b strings.Builder
	if result.EditURL != "" {
		fmt.Fprintf(&b, "報告内容の修正はこちら:\n%s", result.EditURL)
	}
	if result.MapURL != "" {
		if b.Len() > 0 {
			b.WriteString("\n\n")
		}
		fmt.Fprintf(&b, "目撃地点の地図:\n%s", result.MapURL)
	}
	if b.Len() > 0 {
		messages = append(messages, messaging.NewText(b.String()))
	}
	return messages
}

func submitFailedMessage() messaging.Message {
	return messaging.NewText("申し訳ありません、報告の登録に失敗しました。\nしばらくしてからもう一度「報告する」を押してください。")
}
