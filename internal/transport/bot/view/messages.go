package view

const StartMessage = `🏠 <b>Rent Radar</b>

Каждый день собираю объявления, считаю время в пути и присылаю лучшие варианты.

/status — состояние планировщика
/profiles — профили поиска
/run <i>profile</i> — прогнать профиль сейчас
/top <i>profile</i> — топ последнего прогона
/digest — собрать и разослать дайджест
/watch <i>profile</i>, /unwatch <i>profile</i> — выборка профилей для дайджеста
/pause, /resume — остановить или запустить расписание`

const (
	MissingProfile   = "❌ Использование: %s <code>profile</code>"
	UnknownProfile   = "⚠️ Профиль <code>%s</code> не найден"
	NoBatchYet       = "📭 Для <code>%s</code> ещё не было прогонов"
	RunStarted       = "⏳ Запускаю <code>%s</code>..."
	RunFailed        = "❌ Прогон не удался: %s"
	DigestStarted    = "⏳ Собираю дайджест..."
	DigestSent       = "✅ Дайджест «%s» разослан"
	AlreadyRunning   = "Планировщик уже запущен!"
	AlreadyPaused    = "Планировщик уже остановлен."
	Paused           = "⏸ Расписание остановлено"
	Resumed          = "▶️ Расписание запущено, следующий прогон: %s"
	ProfileWatched   = "✅ <code>%s</code> добавлен в выборку"
	ProfileUnwatched = "✅ <code>%s</code> убран из выборки"
	ProfileNotInList = "⚠️ <code>%s</code> нет в выборке"
)
