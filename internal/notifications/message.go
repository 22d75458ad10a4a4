package notifications

import (
	"fmt"
	"time"

	"podology-clinic-server/internal/models"
)

const (
	dateLayout        = "2006-1-2"
	displayDateLayout = "02/01/2006"
	clockLayout       = "15:04"
)

// FormatDisplayDate turns "2006-01-02" into "02/01/2006". Month and day may
// be unpadded. Input that does not parse is returned unchanged.
func FormatDisplayDate(date string) string {
	d, err := time.Parse(dateLayout, date)
	if err != nil {
		return date
	}
	return d.Format(displayDateLayout)
}

// RenderMessage builds the WhatsApp text for a reminder. The time string is
// interpolated verbatim.
func RenderMessage(patientName, date, clock string, t models.NotificationType) string {
	formattedDate := FormatDisplayDate(date)

	if t == models.NotificationDayBefore {
		return fmt.Sprintf(`🦶 *Lembrete de Consulta - Podologia*

Olá %s! 👋

Este é um lembrete de que você tem uma consulta agendada para *amanhã* (%s) às *%s*.

Por favor, confirme sua presença respondendo:
✅ *CONFIRMO* - se você comparecerá
❌ *CANCELAR* - se precisar cancelar

📍 Não se esqueça de trazer documentos e chegar com 10 minutos de antecedência.

Obrigado!`, patientName, formattedDate, clock)
	}

	return fmt.Sprintf(`🦶 *Lembrete de Consulta - Podologia*

Olá %s! 👋

Sua consulta está próxima!

📅 Data: *%s*
🕐 Horário: *%s*

Você tem aproximadamente *1h30* para se preparar.

Por favor, confirme que está a caminho respondendo:
✅ *A CAMINHO* - se você está se dirigindo ao local
❌ *ATRASO* - se você vai se atrasar
❌ *CANCELAR* - se não puder comparecer

📍 Lembre-se de chegar com 10 minutos de antecedência.

Até logo!`, patientName, formattedDate, clock)
}
