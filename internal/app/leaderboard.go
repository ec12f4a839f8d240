package app

import (
	"sort"
	"time"

	"quizarena/internal/domain"
)

// rankLeaderboard orders entries by score, highest first. Ties keep their input order.
func rankLeaderboard(lobbyCode string, entries []domain.LeaderboardEntry, now time.Time) domain.Leaderboard {
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Score > entries[j].Score
	})
	for i := range entries {
		entries[i].Rank = i + 1
	}
	return domain.Leaderboard{
		LobbyCode: lobbyCode,
		Entries:   entries,
		UpdatedAt: now,
	}
}

// lobbyLeaderboard ranks every roster member by their lobby score.
func lobbyLeaderboard(lobby domain.Lobby, now time.Time) domain.Leaderboard {
	entries := make([]domain.LeaderboardEntry, 0, len(lobby.Players))
	for i, playerID := range lobby.Players {
		name := "Unknown"
		if i < len(lobby.PlayerNames) {
			name = lobby.PlayerNames[i]
		}
		entries = append(entries, domain.LeaderboardEntry{
			UserID:      playerID,
			DisplayName: name,
			Score:       lobby.Scores[playerID],
		})
	}
	return rankLeaderboard(lobby.Code, entries, now)
}

// globalLeaderboard ranks users by total score; ties fall back to username.
func globalLeaderboard(users []domain.User, now time.Time) domain.Leaderboard {
	sort.SliceStable(users, func(i, j int) bool {
		return users[i].Username < users[j].Username
	})
	entries := make([]domain.LeaderboardEntry, 0, len(users))
	for _, u := range users {
		entries = append(entries, domain.LeaderboardEntry{
			UserID:           u.ID,
			DisplayName:      u.Username,
			Avatar:           u.Avatar,
			Score:            u.Score,
			QuizzesCompleted: u.QuizzesCompleted,
		})
	}
	return rankLeaderboard("", entries, now)
}
