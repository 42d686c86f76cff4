package seeders

import (
	"encoding/json"
	"errors"
	"time"

	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/on-their-footsteps/footsteps_api/model"
	"github.com/on-their-footsteps/footsteps_api/shared"
)

// CharacterSeeder loads the starter set of historical figures with their
// learning levels and quizzes. Seeding is idempotent: records are keyed by
// fixed IDs and skipped when present.
type CharacterSeeder struct {
	db *gorm.DB
}

func NewCharacterSeeder(db *gorm.DB) *CharacterSeeder {
	return &CharacterSeeder{db: db}
}

func (s *CharacterSeeder) SeedCharacters() error {
	for _, character := range s.starterCharacters() {
		if err := s.createIfMissing(&character); err != nil {
			return err
		}
	}

	for _, level := range s.starterLevels() {
		if err := s.createLevelIfMissing(&level); err != nil {
			return err
		}
	}

	for _, quiz := range s.starterQuizzes() {
		if err := s.createQuizIfMissing(&quiz); err != nil {
			return err
		}
	}

	log.Info("Character seeding completed")
	return nil
}

func (s *CharacterSeeder) createIfMissing(character *model.Character) error {
	var existing model.Character
	err := s.db.Where("id = ?", character.ID).First(&existing).Error
	if err == nil {
		log.WithField("name", character.Name).Debug("Character already exists, skipping")
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	if err := s.db.Create(character).Error; err != nil {
		return err
	}
	log.WithField("name", character.Name).Info("Created character")
	return nil
}

func (s *CharacterSeeder) createLevelIfMissing(level *model.Level) error {
	var existing model.Level
	err := s.db.Where("id = ?", level.ID).First(&existing).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	return s.db.Create(level).Error
}

func (s *CharacterSeeder) createQuizIfMissing(quiz *model.Quiz) error {
	var existing model.Quiz
	err := s.db.Where("id = ?", quiz.ID).First(&existing).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	return s.db.Create(quiz).Error
}

func (s *CharacterSeeder) starterCharacters() []model.Character {
	now := time.Now()

	return []model.Character{
		{
			ID:         "char_umar_ibn_al_khattab",
			Name:       "Umar ibn al-Khattab",
			ArabicName: "عمر بن الخطاب",
			Title:      "Al-Faruq",
			Category:   shared.CategoryCompanions,
			Era:        "Rashidun Caliphate",
			ShortBio:   "Second caliph of Islam, renowned for his justice and the expansion of the early Muslim state.",
			FullBio:    "Umar ibn al-Khattab was one of the most powerful and influential companions of the Prophet. As the second caliph he established many of the institutions of the Islamic state, including the treasury, the judiciary and the hijri calendar. His reign was marked by an uncompromising standard of justice applied equally to governors and commoners.",
			BirthYear:  584,
			DeathYear:  644,
			IsActive:   true,
			SortOrder:  1,
			CreatedAt:  now,
			UpdatedAt:  now,
		},
		{
			ID:         "char_abu_bakr_as_siddiq",
			Name:       "Abu Bakr as-Siddiq",
			ArabicName: "أبو بكر الصديق",
			Title:      "As-Siddiq",
			Category:   shared.CategoryCompanions,
			Era:        "Rashidun Caliphate",
			ShortBio:   "Closest companion of the Prophet and first caliph of Islam.",
			FullBio:    "Abu Bakr was the first adult male to accept Islam and the Prophet's companion on the migration to Medina. Elected caliph after the Prophet's death, he held the community together through the ridda wars and commissioned the first compilation of the Quran into a single volume.",
			BirthYear:  573,
			DeathYear:  634,
			IsActive:   true,
			SortOrder:  2,
			CreatedAt:  now,
			UpdatedAt:  now,
		},
		{
			ID:         "char_yusuf",
			Name:       "Yusuf",
			ArabicName: "يوسف",
			Title:      "The Truthful",
			Category:   shared.CategoryProphets,
			Era:        "Ancient Egypt",
			ShortBio:   "Prophet whose story of patience through betrayal and imprisonment is called the best of stories.",
			FullBio:    "Yusuf was cast into a well by his brothers, sold into slavery and imprisoned on a false accusation, yet rose to administer the treasuries of Egypt. His story, told in a full chapter of the Quran, turns on patience, forgiveness and trust in the divine plan.",
			IsActive:   true,
			SortOrder:  3,
			CreatedAt:  now,
			UpdatedAt:  now,
		},
		{
			ID:         "char_musa",
			Name:       "Musa",
			ArabicName: "موسى",
			Title:      "Kalimullah",
			Category:   shared.CategoryProphets,
			Era:        "Ancient Egypt",
			ShortBio:   "Prophet sent to Pharaoh, the most frequently mentioned prophet in the Quran.",
			FullBio:    "Musa was raised in the house of the very Pharaoh he would later confront. He led the Children of Israel out of bondage, received revelation at Mount Sinai and spent his life guiding a difficult people with persistence and prayer.",
			IsActive:   true,
			SortOrder:  4,
			CreatedAt:  now,
			UpdatedAt:  now,
		},
		{
			ID:         "char_imam_al_bukhari",
			Name:       "Imam al-Bukhari",
			ArabicName: "الإمام البخاري",
			Title:      "Amir al-Mu'minin in Hadith",
			Category:   shared.CategoryScholars,
			Era:        "Abbasid Caliphate",
			ShortBio:   "Compiler of the most rigorously authenticated collection of prophetic traditions.",
			FullBio:    "Muhammad ibn Ismail al-Bukhari travelled for sixteen years across the Muslim world, examining hundreds of thousands of narrations and subjecting each narrator to exacting scrutiny. The resulting Sahih set the standard for hadith criticism.",
			BirthYear:  810,
			DeathYear:  870,
			IsActive:   true,
			SortOrder:  5,
			CreatedAt:  now,
			UpdatedAt:  now,
		},
		{
			ID:         "char_ibn_sina",
			Name:       "Ibn Sina",
			ArabicName: "ابن سينا",
			Title:      "The Principal Master",
			Category:   shared.CategoryScholars,
			Era:        "Islamic Golden Age",
			ShortBio:   "Polymath whose Canon of Medicine taught physicians for six centuries.",
			FullBio:    "Ibn Sina memorized the Quran by age ten and mastered the sciences of his day before twenty. His Canon of Medicine systematized the medical knowledge of the ancient world and remained a standard university text in Europe into the seventeenth century.",
			BirthYear:  980,
			DeathYear:  1037,
			IsActive:   true,
			SortOrder:  6,
			CreatedAt:  now,
			UpdatedAt:  now,
		},
	}
}

func (s *CharacterSeeder) starterLevels() []model.Level {
	now := time.Now()

	return []model.Level{
		{
			ID:          "level_umar_1",
			CharacterID: "char_umar_ibn_al_khattab",
			Number:      1,
			Title:       "Before Islam",
			StoryText:   "Umar was among the strongest opponents of the early Muslims, feared throughout Mecca for his temper and his sword. The story of how he set out to end the Prophet's mission and instead embraced it at his own sister's house became a turning point for the whole community.",
			XPReward:    10,
			CreatedAt:   now,
			UpdatedAt:   now,
		},
		{
			ID:          "level_umar_2",
			CharacterID: "char_umar_ibn_al_khattab",
			Number:      2,
			Title:       "The Just Caliph",
			StoryText:   "As caliph, Umar patrolled Medina at night to see the condition of his people with his own eyes. He carried flour on his own back to a hungry family and refused to eat better than the poorest of his subjects during the year of famine.",
			XPReward:    15,
			CreatedAt:   now,
			UpdatedAt:   now,
		},
		{
			ID:          "level_yusuf_1",
			CharacterID: "char_yusuf",
			Number:      1,
			Title:       "The Dream and the Well",
			StoryText:   "Yusuf dreamed of eleven stars, the sun and the moon bowing before him. His brothers' jealousy carried him from his father's love to the bottom of a well, and from there to the slave markets of Egypt.",
			XPReward:    10,
			CreatedAt:   now,
			UpdatedAt:   now,
		},
		{
			ID:          "level_bukhari_1",
			CharacterID: "char_imam_al_bukhari",
			Number:      1,
			Title:       "The Sixteen Year Journey",
			StoryText:   "Al-Bukhari set out from Bukhara as a teenager and crossed Khurasan, Iraq, the Hijaz, Syria and Egypt in search of narrations, accepting a report only when every narrator in its chain was known for truthfulness, precision and sound memory.",
			XPReward:    10,
			CreatedAt:   now,
			UpdatedAt:   now,
		},
	}
}

func (s *CharacterSeeder) starterQuizzes() []model.Quiz {
	now := time.Now()

	return []model.Quiz{
		{
			ID:            "quiz_umar_1_1",
			LevelID:       "level_umar_1",
			Question:      "Where did Umar embrace Islam?",
			Options:       jsonArray([]string{"At his sister's house", "At the Kaaba", "In Medina", "On a trade journey"}),
			CorrectOption: 0,
			Explanation:   "Umar heard his sister Fatimah reciting the Quran at her house and was moved by the verses of Surah Ta-Ha.",
			SortOrder:     1,
			CreatedAt:     now,
			UpdatedAt:     now,
		},
		{
			ID:            "quiz_umar_1_2",
			LevelID:       "level_umar_1",
			Question:      "What title was Umar given?",
			Options:       jsonArray([]string{"As-Siddiq", "Al-Faruq", "Dhun-Nurayn", "Sayf Allah"}),
			CorrectOption: 1,
			Explanation:   "Al-Faruq means the one who distinguishes truth from falsehood.",
			SortOrder:     2,
			CreatedAt:     now,
			UpdatedAt:     now,
		},
		{
			ID:            "quiz_umar_2_1",
			LevelID:       "level_umar_2",
			Question:      "Which institution did Umar establish?",
			Options:       jsonArray([]string{"The first mosque", "The hijri calendar", "The first madrasa", "The hajj pilgrimage"}),
			CorrectOption: 1,
			Explanation:   "Umar established the hijri calendar, dating from the Prophet's migration to Medina.",
			SortOrder:     1,
			CreatedAt:     now,
			UpdatedAt:     now,
		},
		{
			ID:            "quiz_yusuf_1_1",
			LevelID:       "level_yusuf_1",
			Question:      "How many stars did Yusuf see in his dream?",
			Options:       jsonArray([]string{"Seven", "Nine", "Eleven", "Twelve"}),
			CorrectOption: 2,
			Explanation:   "Yusuf saw eleven stars, the sun and the moon prostrating to him.",
			SortOrder:     1,
			CreatedAt:     now,
			UpdatedAt:     now,
		},
		{
			ID:            "quiz_bukhari_1_1",
			LevelID:       "level_bukhari_1",
			Question:      "Roughly how long did al-Bukhari travel collecting narrations?",
			Options:       jsonArray([]string{"Two years", "Six years", "Sixteen years", "Thirty years"}),
			CorrectOption: 2,
			Explanation:   "He spent about sixteen years travelling before settling to compose his Sahih.",
			SortOrder:     1,
			CreatedAt:     now,
			UpdatedAt:     now,
		},
	}
}

func jsonArray(items []string) json.RawMessage {
	data, _ := json.Marshal(items)
	return data
}
