package community

import "AnsanMomCare/internal/models"

// 기본 게시글 (저장되지 않고 항상 목록 뒤에 붙는다)
func defaultQuestions() []models.Question {
	return []models.Question{
		{
			ID:                "1",
			Title:             "임신 초기 입덧 심할 때 좋은 음식 추천해주세요",
			Content:           "지금 임신 8주인데 입덧이 너무 심해서 아무것도 먹기 힘들어요. 어떤 음식이 도움이 될까요?",
			Author:            "초보맘",
			Category:          "임신",
			Tags:              []string{"입덧", "음식", "임신초기"},
			Likes:             18,
			Answers:           2,
			CreatedAt:         "2024-01-15",
			Status:            models.StatusAnswered,
			HasAcceptedAnswer: true,
			Points:            50,
			Comments: []models.Comment{
				{ID: "1-c1", QuestionID: "1", Author: "다둥이맘", Content: "입덧 심할 땐 얼린 과일이나 요거트가 도움이 됐어요. 시원하게 먹으니 속이 조금 안정됐어요!", CreatedAt: "2024-01-15T09:20:00"},
				{ID: "1-c2", QuestionID: "1", Author: AnonymousAuthor, Content: "저는 크래커 조금씩 먹으면서 생강차 마셨어요. 공복이 되지 않게 조금씩 드셔보세요.", CreatedAt: "2024-01-15T10:05:00", IsAnonymous: true},
			},
		},
		{
			ID:        "2",
			Title:     "신생아 수면 자세에 대해 궁금해요",
			Content:   "아기가 잘 때 어떤 자세로 재우는 것이 가장 안전할까요? 옆으로 재워도 괜찮을까요?",
			Author:    "신생아맘",
			Category:  "육아",
			Tags:      []string{"신생아", "수면", "안전"},
			Likes:     12,
			Answers:   2,
			CreatedAt: "2024-01-14",
			Status:    models.StatusOpen,
			Comments: []models.Comment{
				{ID: "2-c1", QuestionID: "2", Author: "소아과간호사", Content: "신생아는 등을 대고 눕히는 게 가장 안전합니다. 옆으로 눕히면 돌아누울 때 질식 위험이 있어요!", CreatedAt: "2024-01-14T14:20:00"},
				{ID: "2-c2", QuestionID: "2", Author: "새벽지킴이", Content: "옆으로 눕히고 싶다면 돌돌 만 수건으로 몸을 지지해 주세요. 그래도 정자세가 가장 안전해요.", CreatedAt: "2024-01-14T15:42:00"},
			},
		},
		{
			ID:        "3",
			Title:     "산후조리원 예약 시기가 언제가 적당할까요?",
			Content:   "지금 임신 20주인데 산후조리원 예약은 언제쯤 하는 것이 좋을까요? 안산시 추천도 부탁드려요!",
			Author:    "예비맘",
			Category:  "출산",
			Tags:      []string{"산후조리원", "예약", "안산"},
			Likes:     8,
			Answers:   2,
			CreatedAt: "2024-01-13",
			Status:    models.StatusAnswered,
			Comments: []models.Comment{
				{ID: "3-c1", QuestionID: "3", Author: "두아이엄마", Content: "20주 전후에 많이 알아보시더라고요. 저는 22주에 예약했는데 인기 있는 곳은 금방 마감돼요.", CreatedAt: "2024-01-13T11:10:00"},
				{ID: "3-c2", QuestionID: "3", Author: AnonymousAuthor, Content: "안산 ○○산후조리원 다녀왔는데 프로그램도 좋았어요. 상담 받아보시면 바로 감이 오실 거예요.", CreatedAt: "2024-01-13T12:25:00", IsAnonymous: true},
			},
		},
		{
			ID:                "4",
			Title:             "모유 수유 시 좋은 음식과 피해야 할 음식",
			Content:           "모유 수유 중인데 어떤 음식을 먹으면 좋고 어떤 음식은 피해야 할까요?",
			Author:            "수유맘",
			Category:          "수유",
			Tags:              []string{"모유수유", "음식", "영양"},
			Likes:             25,
			Answers:           2,
			CreatedAt:         "2024-01-12",
			Status:            models.StatusAnswered,
			HasAcceptedAnswer: true,
			Points:            30,
			Comments: []models.Comment{
				{ID: "4-c1", QuestionID: "4", Author: "영양사엄마", Content: "단백질과 수분이 중요해요. 살코기, 달걀, 두부, 미역국 자주 드시고 카페인은 줄여 주세요.", CreatedAt: "2024-01-12T08:35:00"},
				{ID: "4-c2", QuestionID: "4", Author: "비염맘", Content: "매운 음식은 아기 배에 가스가 찰 수 있어요. 저는 부드러운 죽이나 생선찜 위주로 먹었습니다.", CreatedAt: "2024-01-12T09:50:00"},
			},
		},
		{
			ID:        "5",
			Title:     "아기 예방접종 스케줄 궁금해요",
			Content:   "다음 달 예방접종이 있는데 어떤 접종을 받아야 할지 궁금합니다.",
			Author:    "육아초보",
			Category:  "건강",
			Tags:      []string{"예방접종", "건강", "스케줄"},
			Likes:     6,
			Answers:   2,
			CreatedAt: "2024-01-11",
			Status:    models.StatusOpen,
			Comments: []models.Comment{
				{ID: "5-c1", QuestionID: "5", Author: "소아과의사", Content: "예방접종도우미 앱에서 월별 접종 일정을 확인할 수 있어요. 접종 후에는 미열이 있을 수 있습니다.", CreatedAt: "2024-01-11T13:15:00"},
				{ID: "5-c2", QuestionID: "5", Author: AnonymousAuthor, Content: "접종 후에는 충분히 안아주시고 해열제는 미리 처방 받아두면 마음이 편하더라고요.", CreatedAt: "2024-01-11T14:40:00", IsAnonymous: true},
			},
		},
	}
}

func isDefaultID(id string) bool {
	for _, q := range defaultQuestions() {
		if q.ID == id {
			return true
		}
	}
	return false
}
