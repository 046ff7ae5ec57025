package bot

// User-facing replies.
const (
	msgWelcome = "Вас приветствует бот компании ООО МДФ г. Димитровграда. " +
		"Бот предназначен для поиска ценовой категории пленок ПВХ. " +
		"Напишите название или артикул пленки, и Вам будут предложены варианты из нашего ассортимента."

	msgNothingFound  = "Ничего не найдено."
	msgEmptyQuery    = "Напишите название или артикул пленки для поиска."
	msgSheetNotFound = "Лист \"%s\" не найден."
	msgSearchFailed  = "Произошла ошибка при поиске. Пожалуйста, попробуйте позже."

	msgNoPermission = "У вас нет прав для выполнения этой команды."

	msgAddRowNoArgs = "Пожалуйста, укажите данные через запятые или точки: Название, Категория, Цена."
	msgAddRowUsage  = "Пожалуйста, укажите три значения через запятую: Название, Категория, Цена."
	msgAddRowDone   = "Новая строка успешно добавлена."
	msgAddRowFailed = "Произошла ошибка при добавлении строки. Пожалуйста, попробуйте позже."

	msgUpdateCellUsage  = "Пожалуйста, укажите номер строки, номер столбца и новое значение через пробел."
	msgUpdateCellDone   = "Ячейка успешно обновлена."
	msgUpdateCellFailed = "Произошла ошибка при обновлении ячейки. Пожалуйста, попробуйте позже."

	msgDeleteRowUsage  = "Пожалуйста, укажите номер строки для удаления."
	msgDeleteRowDone   = "Строка успешно удалена."
	msgDeleteRowFailed = "Произошла ошибка при удалении строки. Пожалуйста, попробуйте позже."
)
