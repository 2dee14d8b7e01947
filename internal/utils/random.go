package utils

import (
	"fmt"
	"math/rand"

	"github.com/mozillazg/go-pinyin"
	"github.com/sysu-ecnc-dev/crm-planning/backend/internal/domain"
)

var commonSurnames = []string{
	"王", "李", "张", "刘", "陈", "杨", "赵", "黄", "周", "吴",
	"徐", "孙", "胡", "朱", "高", "林", "何", "郭", "马", "罗",
}
var commonNameCharacters = []string{
	"伟", "强", "芳", "敏", "静", "丽", "刚", "杰", "娟", "勇",
	"艳", "涛", "明", "军", "磊", "洋", "霞", "飞", "玲", "超",
	"华", "平", "辉", "梅", "鑫", "龙", "鹏", "玉", "斌", "欣",
}

var staffColors = []string{
	"#e74c3c", "#e67e22", "#f1c40f", "#2ecc71", "#1abc9c",
	"#3498db", "#9b59b6", "#34495e", "#16a085", "#d35400",
}

func GenerateRandomChineseName() (string, string) {
	surname := commonSurnames[rand.Intn(len(commonSurnames))]
	nameLength := rand.Intn(2) + 1
	name := ""

	for i := 0; i < nameLength; i++ {
		name += commonNameCharacters[rand.Intn(len(commonNameCharacters))]
	}
	return surname, name
}

var digits = "0123456789"

// GenerateEmailLocalPart 将中文姓名转成拼音并附加随机数字，作为邮箱的本地部分
func GenerateEmailLocalPart(chineseName string) string {
	pinyinArray := pinyin.LazyConvert(chineseName, nil)
	localPart := ""

	for _, p := range pinyinArray {
		localPart += p
	}

	digitsLength := rand.Intn(3) + 1
	for i := 0; i < digitsLength; i++ {
		localPart += string(digits[rand.Intn(len(digits))])
	}

	return localPart
}

func GenerateRandomStaffMember(emailDomainName string) *domain.StaffMember {
	surname, name := GenerateRandomChineseName()

	role := domain.RoleEmployee
	if rand.Intn(10) == 0 {
		role = domain.RoleManager
	}

	return &domain.StaffMember{
		FirstName: name,
		LastName:  surname,
		Email:     GenerateEmailLocalPart(surname+name) + "@" + emailDomainName,
		Color:     staffColors[rand.Intn(len(staffColors))],
		Role:      role,
		IsActive:  true,
	}
}

var shiftTitles = []string{"早班", "午班", "晚班", "前台值班", "外勤"}

// GenerateRandomShift 在给定日期上生成一个随机班次，
// assignedTo 为 nil 时生成未分配的班次
func GenerateRandomShift(date string, assignedTo *int64, color string) *domain.Shift {
	startHour := rand.Intn(12) + 7
	duration := rand.Intn(6) + 2

	return &domain.Shift{
		Kind:        domain.EventKindPlanning,
		Title:       shiftTitles[rand.Intn(len(shiftTitles))],
		Date:        date,
		StartTime:   fmt.Sprintf("%02d:00", startHour),
		EndTime:     fmt.Sprintf("%02d:00", (startHour+duration)%24),
		Description: "",
		Color:       color,
		AssignedTo:  assignedTo,
	}
}
