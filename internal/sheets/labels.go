package sheets

// Workbook labels. Import matches these exactly, so export and import must
// agree on every string here.
const (
	WalletSheetMarker = "💰"

	overviewSheetName = "📊 ภาพรวม"
	monthlySheetName  = "📅 รายเดือน"
	categorySheetName = "🏷️ หมวดหมู่"

	walletLabel         = "กระเป๋าเงิน"
	walletTypeLabel     = "ประเภท"
	initialBalanceLabel = "ยอดเริ่มต้น"

	dateLabel     = "วันที่"
	typeLabel     = "ประเภท"
	iconLabel     = "ไอคอน"
	categoryLabel = "หมวดหมู่"
	amountLabel   = "จำนวนเงิน"
	noteLabel     = "หมายเหตุ"

	incomeLabel  = "รายรับ"
	expenseLabel = "รายจ่าย"

	duplicateMarker = "ซ้ำ"

	uncategorized = "ไม่ระบุหมวดหมู่"
)

// transactionHeader is the six-column table header on every wallet sheet.
var transactionHeader = []string{dateLabel, typeLabel, iconLabel, categoryLabel, amountLabel, noteLabel}

// headerLine renders a "<label>: <value>" metadata row.
func headerLine(label, value string) string {
	return label + ": " + value
}
