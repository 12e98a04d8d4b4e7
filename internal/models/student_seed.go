package models

import "strconv"

// DefaultStudents returns a fresh copy of the roster used to seed an empty store.
func DefaultStudents() []Student {
	return []Student{
		seed(1, "김민수", "경영회계과", "9반", "남", "진로탐색동아리"),
		seed(2, "이서연", "경영회계과", "10반", "여", "진로탐색동아리"),
		seed(3, "박지훈", "경영회계과", "11반", "남", "진로탐색동아리"),
		seed(4, "최유진", "경영회계과", "9반", "여", "진로탐색동아리"),
		seed(5, "정현우", "전자전기과", "5반", "남", "진로탐색동아리"),
		seed(6, "강서영", "전자전기과", "5반", "여", "학생자치동아리"),
		seed(7, "윤민서", "경영회계과", "12반", "여", "학생자치동아리"),
		seed(8, "조은우", "전자전기과", "6반", "남", "학생자치동아리"),
		seed(9, "임소율", "전자전기과", "6반", "여", "학생자치동아리"),
		seed(10, "한지우", "전자전기과", "7반", "남", "학생자치동아리"),
		seed(11, "신동현", "일반과", "1반", "남", "봉사활동동아리"),
		seed(12, "배호연", "컴퓨터소프트웨어과", "1반", "여", "봉사활동동아리"),
		seed(13, "황승민", "컴퓨터소프트웨어과", "2반", "남", "봉사활동동아리"),
		seed(14, "남승호", "컴퓨터소프트웨어과", "3반", "남", "봉사활동동아리"),
		seed(15, "서지아", "컴퓨터소프트웨어과", "2반", "여", "봉사활동동아리"),
		seed(16, "오해원", "일반과", "1반", "여", "문화예술동아리"),
		seed(17, "송서준", "일반과", "1반", "남", "문화예술동아리"),
		seed(18, "전채원", "스마트미디어과", "5반", "여", "문화예술동아리"),
		seed(19, "곽민혁", "일반과", "1반", "남", "문화예술동아리"),
		seed(20, "노다름", "스마트미디어과", "4반", "여", "문화예술동아리"),
		seed(21, "류시온", "스마트미디어과", "4반", "남", "체육동아리"),
		seed(22, "안태양", "일반과", "1반", "남", "학생자치동아리, 봉사활동동아리"),
		seed(23, "유하준", "인공지능소프트웨어과", "6반", "남", "체육동아리"),
		seed(24, "문해선", "일반과", "1반", "여", "체육동아리"),
		seed(25, "주서윤", "인공지능소프트웨어과", "7반", "여", "체육동아리"),
	}
}

func seed(number int, name, department, className, gender, clubs string) Student {
	return Student{
		StudentNumber:      number,
		Name:               name,
		Password:           strconv.Itoa(number),
		FirstLogin:         true,
		IsDataConfirmed:    false,
		Department:         department,
		ClassName:          className,
		Gender:             gender,
		ClubsJoined:        clubs,
		ParentShareConsent: ConsentNo,
		Photo:              "https://api.school.edu/photos/" + strconv.Itoa(number) + ".jpg",
	}
}
