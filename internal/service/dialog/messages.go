package dialog

// Commands accepted in every state.
const (
	CommandStart  = "/start"
	CommandCancel = "/cancel"
)

// Menu labels.
const (
	LabelAbout          = "О проекте"
	LabelRandomQuestion = "Случайный вопрос"
	LabelChooseTheme    = "Выбрать тему"
	LabelMainMenu       = "Главное меню"
	LabelBack           = "Назад"
	LabelAnother        = "Еще вопрос"
	LabelOtherTheme     = "Выбрать другую тему"
	LabelFinish         = "Завершить"
)

const (
	placeholderSection = "Выбери раздел"
	placeholderAction  = "Выбор действия"
	placeholderTheme   = "Выбор темы"
)

const (
	welcomeText = "Я предложу тебе поразмышлять над вопросами о себе для саморазвития и мемуаров\n\n" +
		"Бот не сохраняет ответы и персональные данные.\n\n" +
		"Отправь /cancel чтобы завершить диалог.\n\n" +
		"Выбери раздел:"

	aboutText = "Привет!\n" +
		"Этот бот - твой личный проводник в мире саморефлексии.\n" +
		"Мы собрали глубокие и иногда неожиданные вопросы, чтобы помочь тебе лучше узнать себя " +
		"и создать живые мемуары, которые не напишешь по шаблону.\n\n" +
		"Как с этим работать?\n" +
		"1. Выбирай тему, которая откликается тебе прямо сейчас.\n" +
		"2. Получай карточку с вопросом. Не торопись, дай себе время ощутить его.\n" +
		"3. Отвечай так, как чувствуешь: в бумажном дневнике 📓, голосовым сообщением 🎙️, " +
		"на видео 🎥 или просто за чашкой чая ☕\n\n" +
		"Бот НЕ сохраняет, НЕ анализирует и НЕ имеет доступа к твоим размышлениям.\n" +
		"Готов исследовать свои мысли? Жми /start!"

	sectionPromptSuffix = "\n\nВыбери действие:"
	themePrompt         = "🎯 Выбери тему вопросов:"
	nextStepSuffix      = "\n\nЧто хочешь сделать дальше?"
	randomDoneSuffix    = "\n\nХочешь еще вопрос? Отправь /start"
	questionPrefix      = "📖 "

	invalidSectionText = "Пожалуйста, выбери один из предложенных разделов"
	invalidOptionText  = "Пожалуйста, выбери один из предложенных вариантов"
	invalidThemeText   = "Пожалуйста, выбери одну из предложенных тем"
	noQuestionText     = "Произошла ошибка при выборе вопроса. Попробуй еще раз."

	completedText = "Спасибо за ответы! До встречи! 👋\n/start"
	cancelledText = "До встречи! 👋\n/start"
	endedHintText = "Диалог завершен. Отправь /start, чтобы начать заново."
)
